package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"aquaserve-backend/middleware"
	"aquaserve-backend/models"
	"aquaserve-backend/services"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	orders    store.OrderStore
	customers store.CustomerStore
	users     store.UserStore
	notifier  services.Notifier
}

func NewOrderController(orders store.OrderStore, customers store.CustomerStore, users store.UserStore, notifier services.Notifier) *OrderController {
	return &OrderController{orders: orders, customers: customers, users: users, notifier: notifier}
}

// CreateOrderInput accepts either a customerId reference or the legacy
// denormalized customer fields.
type CreateOrderInput struct {
	CustomerID      *uuid.UUID `json:"customerId"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	CustomerEmail   string     `json:"customerEmail"`
	CustomerAddress string     `json:"customerAddress"`

	ServiceType   string     `json:"serviceType" binding:"required"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes"`
	Priority      string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

type UpdateOrderInput struct {
	CustomerAddress *string    `json:"customerAddress"`
	ServiceType     *string    `json:"serviceType"`
	Description     *string    `json:"description"`
	Notes           *string    `json:"notes"`
	Priority        *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ScheduledDate   *time.Time `json:"scheduledDate"`
}

type AssignOrderInput struct {
	EmployeeID uuid.UUID `json:"employeeId" binding:"required"`
}

type UpdateStatusInput struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description"`
}

// canAccess reports whether the actor may read or mutate the order.
// Employees only reach orders assigned to them; admins are unrestricted.
func canAccess(user *models.User, order *models.Order) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return order.AssignedToID != nil && *order.AssignedToID == user.ID
}

func (o *OrderController) loadOrder(c *gin.Context) (*models.Order, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return nil, false
	}

	order, err := o.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	if !canAccess(middleware.CurrentUser(c), order) {
		utils.RespondWithError(c, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return order, true
}

// CreateOrder opens a new service order in status pending and writes the
// first history row.
func (o *OrderController) CreateOrder(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order := models.Order{
		OrderNumber: utils.GenerateOrderNumber(),
		ServiceType: input.ServiceType,
		Description: input.Description,
		Notes:       input.Notes,
		Status:      models.OrderStatusPending,
		Priority:    models.PriorityMedium,
	}
	if input.Priority != "" {
		order.Priority = input.Priority
	}
	order.ScheduledDate = input.ScheduledDate

	if input.CustomerID != nil {
		customer, err := o.customers.GetCustomer(c.Request.Context(), *input.CustomerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		// Snapshot the customer at creation time
		order.CustomerID = &customer.ID
		order.CustomerName = customer.Name
		order.CustomerPhone = customer.Phone
		order.CustomerAddress = customer.Address
		if customer.Email != nil {
			order.CustomerEmail = *customer.Email
		}
	} else {
		if input.CustomerName == "" || input.CustomerPhone == "" || input.CustomerAddress == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "customerId or customer name, phone and address are required")
			return
		}
		order.CustomerName = input.CustomerName
		order.CustomerPhone = input.CustomerPhone
		order.CustomerEmail = input.CustomerEmail
		order.CustomerAddress = input.CustomerAddress
	}

	history := models.OrderHistory{
		UserID:      actor.ID,
		Action:      "Created",
		NewStatus:   models.OrderStatusPending,
		Description: "Order created",
	}

	if err := o.orders.CreateOrder(c.Request.Context(), &order, &history); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Order created", order)
}

func (o *OrderController) GetOrders(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := store.OrderFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		Limit:    limit,
	}
	if cid := c.Query("customerId"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &id
	}

	// Employees only ever see their own assignments
	if !actor.IsAdmin() {
		filter.AssignedToID = &actor.ID
	}

	orders, total, err := o.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	utils.RespondPaginated(c, http.StatusOK, orders, page, limit, total)
}

func (o *OrderController) GetOrder(c *gin.Context) {
	order, ok := o.loadOrder(c)
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", order)
}

// AssignOrder hands an order to an active employee. The target must exist,
// hold the employee role and be active; otherwise the order is untouched.
func (o *OrderController) AssignOrder(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	order, ok := o.loadOrder(c)
	if !ok {
		return
	}

	var input AssignOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	employee, err := o.users.GetUser(c.Request.Context(), input.EmployeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if employee.Role != models.RoleEmployee {
		utils.RespondWithError(c, http.StatusBadRequest, "User is not an employee")
		return
	}
	if !employee.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Employee is inactive")
		return
	}

	oldStatus := order.Status
	order.AssignedToID = &employee.ID
	order.AssignedByID = &actor.ID
	order.Status = models.OrderStatusAssigned
	order.AssignedTo = nil

	history := models.OrderHistory{
		UserID:      actor.ID,
		Action:      "Assigned",
		OldStatus:   oldStatus,
		NewStatus:   models.OrderStatusAssigned,
		Description: "Assigned to " + employee.Name,
		Metadata:    models.JSONB{"employeeId": employee.ID.String()},
	}

	if err := o.orders.UpdateOrder(c.Request.Context(), order, &history); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign order")
		return
	}

	// Best effort; assignment already succeeded
	if employee.Phone != "" {
		msg := fmt.Sprintf("New service order %s assigned to you: %s at %s",
			order.OrderNumber, order.ServiceType, order.CustomerAddress)
		if err := o.notifier.Send(employee.Phone, msg); err != nil {
			log.Printf("Failed to notify employee %s: %v", employee.ID, err)
		}
	}

	utils.RespondWithData(c, http.StatusOK, "Order assigned", order)
}

// UpdateOrder changes descriptive fields without touching status.
func (o *OrderController) UpdateOrder(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	order, ok := o.loadOrder(c)
	if !ok {
		return
	}

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CustomerAddress != nil {
		order.CustomerAddress = *input.CustomerAddress
	}
	if input.ServiceType != nil {
		order.ServiceType = *input.ServiceType
	}
	if input.Description != nil {
		order.Description = *input.Description
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if input.Priority != nil {
		order.Priority = *input.Priority
	}
	if input.ScheduledDate != nil {
		order.ScheduledDate = input.ScheduledDate
	}
	order.Customer = nil
	order.AssignedTo = nil

	history := models.OrderHistory{
		UserID:      actor.ID,
		Action:      "Updated",
		OldStatus:   order.Status,
		NewStatus:   order.Status,
		Description: "Order details updated",
	}

	if err := o.orders.UpdateOrder(c.Request.Context(), order, &history); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Order updated", order)
}

// UpdateStatus moves the order to the requested status. Transitions are not
// constrained beyond the declared enum; completing an order stamps
// completedDate once and notifies the customer best-effort.
func (o *OrderController) UpdateStatus(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	order, ok := o.loadOrder(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order status")
		return
	}

	oldStatus := order.Status
	order.Status = input.Status
	if input.Status == models.OrderStatusCompleted && oldStatus != models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedDate = &now
	}
	order.Customer = nil
	order.AssignedTo = nil

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Status changed from %s to %s", oldStatus, input.Status)
	}

	history := models.OrderHistory{
		UserID:      actor.ID,
		Action:      "Status Changed",
		OldStatus:   oldStatus,
		NewStatus:   input.Status,
		Description: description,
	}

	if err := o.orders.UpdateOrder(c.Request.Context(), order, &history); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	if order.CustomerPhone != "" {
		msg := fmt.Sprintf("Your service order %s is now %s", order.OrderNumber, input.Status)
		if err := o.notifier.Send(order.CustomerPhone, msg); err != nil {
			log.Printf("Failed to notify customer for order %s: %v", order.OrderNumber, err)
		}
	}

	utils.RespondWithData(c, http.StatusOK, "Order status updated", order)
}

func (o *OrderController) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	if err := o.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Order deleted", nil)
}

func (o *OrderController) GetOrderHistory(c *gin.Context) {
	order, ok := o.loadOrder(c)
	if !ok {
		return
	}

	history, err := o.orders.ListOrderHistory(c.Request.Context(), order.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve order history")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", history)
}
