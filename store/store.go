// Package store defines the persistence interfaces the controllers depend on.
// The gorm-backed implementation lives in store/gormstore; tests use fakes.
package store

import (
	"context"
	"time"

	"aquaserve-backend/models"

	"github.com/google/uuid"
)

type UserFilter struct {
	Role     string
	IsActive *bool
	Page     int
	Limit    int
}

type CustomerFilter struct {
	Search string // matched against name, phone, email, customer number
	Status string
	Page   int
	Limit  int
}

type OrderFilter struct {
	Status       string
	Priority     string
	AssignedToID *uuid.UUID
	CustomerID   *uuid.UUID
	Page         int
	Limit        int
}

type PlanFilter struct {
	IsActive *bool
}

type SubscriptionFilter struct {
	CustomerID *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

type VisitFilter struct {
	SubscriptionID *uuid.UUID
	TechnicianID   *uuid.UUID
	Status         string
	Page           int
	Limit          int
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	// CountActiveOrders counts orders still assigned or in progress for a
	// user; such users cannot be hard-deleted.
	CountActiveOrders(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]models.Customer, int64, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	CountCustomerOrders(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type OrderStore interface {
	// CreateOrder persists the order and its initial history row atomically.
	CreateOrder(ctx context.Context, order *models.Order, history *models.OrderHistory) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	// UpdateOrder persists the order and appends a history row in one
	// transaction. When the history records a transition into completed,
	// the customer's booking stats are bumped in the same transaction.
	UpdateOrder(ctx context.Context, order *models.Order, history *models.OrderHistory) error
	// DeleteOrder removes the order and cascades its history rows.
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrderHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error)
}

type AmcStore interface {
	CreatePlan(ctx context.Context, plan *models.AmcPlan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*models.AmcPlan, error)
	GetPlanByCode(ctx context.Context, code string) (*models.AmcPlan, error)
	ListPlans(ctx context.Context, filter PlanFilter) ([]models.AmcPlan, error)
	UpdatePlan(ctx context.Context, plan *models.AmcPlan) error

	CreateSubscription(ctx context.Context, sub *models.AmcSubscription) error
	GetSubscription(ctx context.Context, id uuid.UUID) (*models.AmcSubscription, error)
	ListSubscriptions(ctx context.Context, filter SubscriptionFilter) ([]models.AmcSubscription, int64, error)
	UpdateSubscription(ctx context.Context, sub *models.AmcSubscription) error
	// RecordPayment saves the subscription's payment fields and adds the
	// newly paid delta to the customer's lifetime spend atomically.
	RecordPayment(ctx context.Context, sub *models.AmcSubscription, paidDelta float64) error
	// ExpireOverdue marks active subscriptions whose end date has passed as
	// expired and returns how many rows changed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

	CreateVisit(ctx context.Context, visit *models.AmcVisit) error
	GetVisit(ctx context.Context, id uuid.UUID) (*models.AmcVisit, error)
	ListVisits(ctx context.Context, filter VisitFilter) ([]models.AmcVisit, int64, error)
	// UpdateVisit persists the visit and shifts the owning subscription's
	// visit counters by counterDelta (+1 on completion, -1 when a completed
	// visit is reopened, 0 otherwise) in one transaction.
	UpdateVisit(ctx context.Context, visit *models.AmcVisit, counterDelta int) error
}

type DashboardStats struct {
	TotalOrders         int64            `json:"totalOrders"`
	OrdersByStatus      map[string]int64 `json:"ordersByStatus"`
	TotalCustomers      int64            `json:"totalCustomers"`
	ActiveSubscriptions int64            `json:"activeSubscriptions"`
	Revenue             float64          `json:"revenue"`
	RecentOrders        []models.Order   `json:"recentOrders"`
}

type StatsStore interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}
