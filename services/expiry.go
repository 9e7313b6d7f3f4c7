// services/expiry.go
package services

import (
	"context"
	"log"
	"time"

	"aquaserve-backend/store"

	"github.com/robfig/cron/v3"
)

// ExpiryService sweeps AMC subscriptions whose contract period has ended and
// marks them expired.
type ExpiryService struct {
	amc store.AmcStore
}

func NewExpiryService(amc store.AmcStore) *ExpiryService {
	return &ExpiryService{amc: amc}
}

// StartScheduler runs the sweep once at startup and then daily at 2 AM.
func (s *ExpiryService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 2 * * *", s.Run)
	c.Start()

	s.Run()
	log.Println("Subscription expiry scheduler started")
}

func (s *ExpiryService) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.amc.ExpireOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("Expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Expiry sweep: %d subscriptions marked expired", expired)
	}
}
