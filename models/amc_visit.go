package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VisitStatusScheduled   = "scheduled"
	VisitStatusInProgress  = "in-progress"
	VisitStatusCompleted   = "completed"
	VisitStatusCancelled   = "cancelled"
	VisitStatusRescheduled = "rescheduled"

	VisitTypeScheduled = "scheduled"
	VisitTypeEmergency = "emergency"
	VisitTypeCallback  = "callback"
)

func ValidVisitStatus(s string) bool {
	switch s {
	case VisitStatusScheduled, VisitStatusInProgress, VisitStatusCompleted,
		VisitStatusCancelled, VisitStatusRescheduled:
		return true
	}
	return false
}

type AmcVisit struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	VisitNumber string    `gorm:"uniqueIndex;not null" json:"visitNumber"`

	SubscriptionID uuid.UUID        `gorm:"type:uuid;index;not null" json:"subscriptionId"`
	Subscription   *AmcSubscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
	OrderID        *uuid.UUID       `gorm:"type:uuid;index" json:"orderId"`

	VisitType string `gorm:"type:varchar(20);default:'scheduled'" json:"visitType"` // scheduled, emergency, callback

	ScheduledDate *time.Time `json:"scheduledDate"`
	CompletedDate *time.Time `json:"completedDate"`

	Status string `gorm:"type:varchar(20);default:'scheduled'" json:"status"` // scheduled, in-progress, completed, cancelled, rescheduled

	ServicePerformed  string     `json:"servicePerformed"`
	PartsReplaced     StringList `gorm:"type:jsonb;default:'[]'" json:"partsReplaced"`
	AdditionalCharges float64    `gorm:"type:decimal(10,2);default:0.0" json:"additionalCharges"`

	TechnicianID *uuid.UUID `gorm:"type:uuid;index" json:"technicianId"`
	Technician   *User      `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`

	CustomerRating   *int   `json:"customerRating"` // 1-5
	CustomerFeedback string `json:"customerFeedback"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *AmcVisit) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
