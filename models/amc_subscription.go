package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusSuspended = "suspended"

	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

type AmcSubscription struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubscriptionNumber string    `gorm:"uniqueIndex;not null" json:"subscriptionNumber"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	PlanID     uuid.UUID `gorm:"type:uuid;index;not null" json:"planId"`
	Plan       *AmcPlan  `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`

	Status string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, expired, cancelled, suspended

	TotalAmount   float64 `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	PaidAmount    float64 `gorm:"type:decimal(10,2);default:0.0" json:"paidAmount"`
	BalanceAmount float64 `gorm:"type:decimal(10,2);default:0.0" json:"balanceAmount"`
	PaymentStatus string  `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"` // pending, partial, paid

	VisitsUsed      int `gorm:"default:0" json:"visitsUsed"`
	VisitsRemaining int `gorm:"default:0" json:"visitsRemaining"`

	AutoRenewal        bool       `gorm:"default:false" json:"autoRenewal"`
	CancelledDate      *time.Time `json:"cancelledDate"`
	CancellationReason string     `json:"cancellationReason"`

	Visits []AmcVisit `gorm:"foreignKey:SubscriptionID" json:"visits,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *AmcSubscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Round2 rounds a currency amount to two decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// SubscriptionTotal computes the contract value from the plan snapshot:
// price plus GST percent, rounded to paise.
func SubscriptionTotal(price, gstPercent float64) float64 {
	return Round2(price + price*gstPercent/100)
}

// DerivePaymentStatus maps paid-vs-total onto pending/partial/paid.
func DerivePaymentStatus(paid, total float64) string {
	switch {
	case paid >= total && total > 0:
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// ApplyPayment sets PaidAmount and re-derives BalanceAmount and PaymentStatus.
func (s *AmcSubscription) ApplyPayment(paid float64) {
	s.PaidAmount = Round2(paid)
	s.BalanceAmount = Round2(s.TotalAmount - s.PaidAmount)
	if s.BalanceAmount < 0 {
		s.BalanceAmount = 0
	}
	s.PaymentStatus = DerivePaymentStatus(s.PaidAmount, s.TotalAmount)
}
