package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AmcPlan is an immutable pricing template for annual maintenance contracts.
// Deactivating a plan hides it from new subscriptions without touching the
// subscriptions already sold against it.
type AmcPlan struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PlanCode string    `gorm:"uniqueIndex;not null" json:"planCode"`
	PlanName string    `gorm:"not null" json:"planName"`

	Duration       int     `gorm:"not null" json:"duration"` // in months
	ServiceType    string  `gorm:"not null" json:"serviceType"`
	NumberOfVisits int     `gorm:"not null" json:"numberOfVisits"`
	Price          float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	GST            float64 `gorm:"type:decimal(5,2);default:18" json:"gst"` // percent

	Features StringList `gorm:"type:jsonb;default:'[]'" json:"features"`
	IsActive bool       `gorm:"default:true" json:"isActive"`

	Subscriptions []AmcSubscription `gorm:"foreignKey:PlanID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *AmcPlan) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
