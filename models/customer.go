package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CustomerTypeResidential = "residential"
	CustomerTypeCommercial  = "commercial"
	CustomerTypeIndustrial  = "industrial"

	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
	CustomerStatusBlocked  = "blocked"
)

type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerNumber string    `gorm:"uniqueIndex;not null" json:"customerNumber"`

	Name    string  `gorm:"not null" json:"name"`
	Phone   string  `gorm:"uniqueIndex;not null" json:"phone"`
	Email   *string `gorm:"uniqueIndex" json:"email"`
	Address string  `gorm:"not null" json:"address"`

	City       *string  `json:"city"`
	State      *string  `json:"state"`
	PostalCode *string  `json:"postalCode"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`

	CustomerType string `gorm:"type:varchar(20);default:'residential'" json:"customerType"` // residential, commercial, industrial
	Status       string `gorm:"type:varchar(20);default:'active'" json:"status"`            // active, inactive, blocked

	TotalBookings   int        `gorm:"default:0" json:"totalBookings"`
	TotalSpent      float64    `gorm:"type:decimal(10,2);default:0.0" json:"totalSpent"`
	LoyaltyPoints   int        `gorm:"default:0" json:"loyaltyPoints"`
	LastBookingDate *time.Time `json:"lastBookingDate"`

	Orders        []Order           `gorm:"foreignKey:CustomerID" json:"-"`
	Subscriptions []AmcSubscription `gorm:"foreignKey:CustomerID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
