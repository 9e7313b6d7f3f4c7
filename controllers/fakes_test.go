package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"aquaserve-backend/middleware"
	"aquaserve-backend/models"
	"aquaserve-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser injects the acting user the way middleware.Auth would after
// verifying a token.
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func adminUser() *models.User {
	return &models.User{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
}

func employeeUser() *models.User {
	return &models.User{ID: uuid.New(), Name: "Ravi", Email: "ravi@example.com", Phone: "+919876500001", Role: models.RoleEmployee, IsActive: true}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) Send(phone, message string) error {
	n.sent = append(n.sent, phone+": "+message)
	return nil
}

// fakeUserStore implements store.UserStore with overridable behavior per
// test. Unset lookups answer not-found.
type fakeUserStore struct {
	createUser        func(user *models.User) error
	getUser           func(id uuid.UUID) (*models.User, error)
	getUserByEmail    func(email string) (*models.User, error)
	listUsers         func(filter store.UserFilter) ([]models.User, int64, error)
	updateUser        func(user *models.User) error
	deleteUser        func(id uuid.UUID) error
	countActiveOrders func(userID uuid.UUID) (int64, error)
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if f.createUser == nil {
		return nil
	}
	return f.createUser(user)
}

func (f *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.getUser == nil {
		return nil, store.ErrNotFound
	}
	return f.getUser(id)
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getUserByEmail == nil {
		return nil, store.ErrNotFound
	}
	return f.getUserByEmail(email)
}

func (f *fakeUserStore) ListUsers(_ context.Context, filter store.UserFilter) ([]models.User, int64, error) {
	if f.listUsers == nil {
		return nil, 0, nil
	}
	return f.listUsers(filter)
}

func (f *fakeUserStore) UpdateUser(_ context.Context, user *models.User) error {
	if f.updateUser == nil {
		return nil
	}
	return f.updateUser(user)
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	if f.deleteUser == nil {
		return nil
	}
	return f.deleteUser(id)
}

func (f *fakeUserStore) CountActiveOrders(_ context.Context, userID uuid.UUID) (int64, error) {
	if f.countActiveOrders == nil {
		return 0, nil
	}
	return f.countActiveOrders(userID)
}

type fakeCustomerStore struct {
	createCustomer      func(customer *models.Customer) error
	getCustomer         func(id uuid.UUID) (*models.Customer, error)
	getCustomerByPhone  func(phone string) (*models.Customer, error)
	getCustomerByEmail  func(email string) (*models.Customer, error)
	listCustomers       func(filter store.CustomerFilter) ([]models.Customer, int64, error)
	updateCustomer      func(customer *models.Customer) error
	deleteCustomer      func(id uuid.UUID) error
	countCustomerOrders func(customerID uuid.UUID) (int64, error)
}

func (f *fakeCustomerStore) CreateCustomer(_ context.Context, customer *models.Customer) error {
	if f.createCustomer == nil {
		return nil
	}
	return f.createCustomer(customer)
}

func (f *fakeCustomerStore) GetCustomer(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if f.getCustomer == nil {
		return nil, store.ErrNotFound
	}
	return f.getCustomer(id)
}

func (f *fakeCustomerStore) GetCustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	if f.getCustomerByPhone == nil {
		return nil, store.ErrNotFound
	}
	return f.getCustomerByPhone(phone)
}

func (f *fakeCustomerStore) GetCustomerByEmail(_ context.Context, email string) (*models.Customer, error) {
	if f.getCustomerByEmail == nil {
		return nil, store.ErrNotFound
	}
	return f.getCustomerByEmail(email)
}

func (f *fakeCustomerStore) ListCustomers(_ context.Context, filter store.CustomerFilter) ([]models.Customer, int64, error) {
	if f.listCustomers == nil {
		return nil, 0, nil
	}
	return f.listCustomers(filter)
}

func (f *fakeCustomerStore) UpdateCustomer(_ context.Context, customer *models.Customer) error {
	if f.updateCustomer == nil {
		return nil
	}
	return f.updateCustomer(customer)
}

func (f *fakeCustomerStore) DeleteCustomer(_ context.Context, id uuid.UUID) error {
	if f.deleteCustomer == nil {
		return nil
	}
	return f.deleteCustomer(id)
}

func (f *fakeCustomerStore) CountCustomerOrders(_ context.Context, customerID uuid.UUID) (int64, error) {
	if f.countCustomerOrders == nil {
		return 0, nil
	}
	return f.countCustomerOrders(customerID)
}

type fakeOrderStore struct {
	createOrder      func(order *models.Order, history *models.OrderHistory) error
	getOrder         func(id uuid.UUID) (*models.Order, error)
	listOrders       func(filter store.OrderFilter) ([]models.Order, int64, error)
	updateOrder      func(order *models.Order, history *models.OrderHistory) error
	deleteOrder      func(id uuid.UUID) error
	listOrderHistory func(orderID uuid.UUID) ([]models.OrderHistory, error)
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order, history *models.OrderHistory) error {
	if f.createOrder == nil {
		return nil
	}
	return f.createOrder(order, history)
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if f.getOrder == nil {
		return nil, store.ErrNotFound
	}
	return f.getOrder(id)
}

func (f *fakeOrderStore) ListOrders(_ context.Context, filter store.OrderFilter) ([]models.Order, int64, error) {
	if f.listOrders == nil {
		return nil, 0, nil
	}
	return f.listOrders(filter)
}

func (f *fakeOrderStore) UpdateOrder(_ context.Context, order *models.Order, history *models.OrderHistory) error {
	if f.updateOrder == nil {
		return nil
	}
	return f.updateOrder(order, history)
}

func (f *fakeOrderStore) DeleteOrder(_ context.Context, id uuid.UUID) error {
	if f.deleteOrder == nil {
		return nil
	}
	return f.deleteOrder(id)
}

func (f *fakeOrderStore) ListOrderHistory(_ context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	if f.listOrderHistory == nil {
		return nil, nil
	}
	return f.listOrderHistory(orderID)
}

type fakeAmcStore struct {
	createPlan    func(plan *models.AmcPlan) error
	getPlan       func(id uuid.UUID) (*models.AmcPlan, error)
	getPlanByCode func(code string) (*models.AmcPlan, error)
	listPlans     func(filter store.PlanFilter) ([]models.AmcPlan, error)
	updatePlan    func(plan *models.AmcPlan) error

	createSubscription func(sub *models.AmcSubscription) error
	getSubscription    func(id uuid.UUID) (*models.AmcSubscription, error)
	listSubscriptions  func(filter store.SubscriptionFilter) ([]models.AmcSubscription, int64, error)
	updateSubscription func(sub *models.AmcSubscription) error
	recordPayment      func(sub *models.AmcSubscription, paidDelta float64) error
	expireOverdue      func(now time.Time) (int64, error)

	createVisit func(visit *models.AmcVisit) error
	getVisit    func(id uuid.UUID) (*models.AmcVisit, error)
	listVisits  func(filter store.VisitFilter) ([]models.AmcVisit, int64, error)
	updateVisit func(visit *models.AmcVisit, counterDelta int) error
}

func (f *fakeAmcStore) CreatePlan(_ context.Context, plan *models.AmcPlan) error {
	if f.createPlan == nil {
		return nil
	}
	return f.createPlan(plan)
}

func (f *fakeAmcStore) GetPlan(_ context.Context, id uuid.UUID) (*models.AmcPlan, error) {
	if f.getPlan == nil {
		return nil, store.ErrNotFound
	}
	return f.getPlan(id)
}

func (f *fakeAmcStore) GetPlanByCode(_ context.Context, code string) (*models.AmcPlan, error) {
	if f.getPlanByCode == nil {
		return nil, store.ErrNotFound
	}
	return f.getPlanByCode(code)
}

func (f *fakeAmcStore) ListPlans(_ context.Context, filter store.PlanFilter) ([]models.AmcPlan, error) {
	if f.listPlans == nil {
		return nil, nil
	}
	return f.listPlans(filter)
}

func (f *fakeAmcStore) UpdatePlan(_ context.Context, plan *models.AmcPlan) error {
	if f.updatePlan == nil {
		return nil
	}
	return f.updatePlan(plan)
}

func (f *fakeAmcStore) CreateSubscription(_ context.Context, sub *models.AmcSubscription) error {
	if f.createSubscription == nil {
		return nil
	}
	return f.createSubscription(sub)
}

func (f *fakeAmcStore) GetSubscription(_ context.Context, id uuid.UUID) (*models.AmcSubscription, error) {
	if f.getSubscription == nil {
		return nil, store.ErrNotFound
	}
	return f.getSubscription(id)
}

func (f *fakeAmcStore) ListSubscriptions(_ context.Context, filter store.SubscriptionFilter) ([]models.AmcSubscription, int64, error) {
	if f.listSubscriptions == nil {
		return nil, 0, nil
	}
	return f.listSubscriptions(filter)
}

func (f *fakeAmcStore) UpdateSubscription(_ context.Context, sub *models.AmcSubscription) error {
	if f.updateSubscription == nil {
		return nil
	}
	return f.updateSubscription(sub)
}

func (f *fakeAmcStore) RecordPayment(_ context.Context, sub *models.AmcSubscription, paidDelta float64) error {
	if f.recordPayment == nil {
		return nil
	}
	return f.recordPayment(sub, paidDelta)
}

func (f *fakeAmcStore) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	if f.expireOverdue == nil {
		return 0, nil
	}
	return f.expireOverdue(now)
}

func (f *fakeAmcStore) CreateVisit(_ context.Context, visit *models.AmcVisit) error {
	if f.createVisit == nil {
		return nil
	}
	return f.createVisit(visit)
}

func (f *fakeAmcStore) GetVisit(_ context.Context, id uuid.UUID) (*models.AmcVisit, error) {
	if f.getVisit == nil {
		return nil, store.ErrNotFound
	}
	return f.getVisit(id)
}

func (f *fakeAmcStore) ListVisits(_ context.Context, filter store.VisitFilter) ([]models.AmcVisit, int64, error) {
	if f.listVisits == nil {
		return nil, 0, nil
	}
	return f.listVisits(filter)
}

func (f *fakeAmcStore) UpdateVisit(_ context.Context, visit *models.AmcVisit, counterDelta int) error {
	if f.updateVisit == nil {
		return nil
	}
	return f.updateVisit(visit, counterDelta)
}

// decodeResponse unmarshals the standard envelope for assertions on
// success/message.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
