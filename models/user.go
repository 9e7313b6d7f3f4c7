package models

import (
	"time"

	"aquaserve-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone    string    `json:"phone"`
	Password string    `gorm:"not null" json:"-"`

	Role     string `gorm:"type:varchar(20);not null;default:'employee'" json:"role"` // 'admin' or 'employee'
	IsActive bool   `gorm:"default:true" json:"isActive"`

	LastLogin *time.Time `json:"lastLogin"`

	AssignedOrders []Order `gorm:"foreignKey:AssignedToID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
