package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusAssigned   = "assigned"
	OrderStatusInProgress = "in-progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidOrderStatus reports whether s is one of the declared order statuses.
// There is no transition graph on top of this; any declared status may follow
// any other. That looseness is intentional.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null" json:"orderNumber"`

	// Snapshot of the customer at creation time. Kept even if the Customer
	// record changes later so past orders stay historically accurate.
	CustomerName    string `gorm:"not null" json:"customerName"`
	CustomerPhone   string `gorm:"not null" json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `gorm:"not null" json:"customerAddress"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customerId"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	ServiceType string `gorm:"not null" json:"serviceType"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	Status   string `gorm:"type:varchar(20);default:'pending'" json:"status"`  // pending, assigned, in-progress, completed, cancelled
	Priority string `gorm:"type:varchar(20);default:'medium'" json:"priority"` // low, medium, high, urgent

	ScheduledDate *time.Time `json:"scheduledDate"`
	CompletedDate *time.Time `json:"completedDate"`

	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assignedToId"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	AssignedByID *uuid.UUID `gorm:"type:uuid" json:"assignedById"`

	History []OrderHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderHistory is the append-only audit trail of an order. Rows are never
// updated and are only removed when the parent order is deleted.
type OrderHistory struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"userId"`

	Action      string `gorm:"not null" json:"action"` // Created, Assigned, Updated, Status Changed
	OldStatus   string `json:"oldStatus"`
	NewStatus   string `json:"newStatus"`
	Description string `json:"description"`
	Metadata    JSONB  `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
}

func (h *OrderHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}
