package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AmcSubscriptionController struct {
	amc       store.AmcStore
	customers store.CustomerStore
}

func NewAmcSubscriptionController(amc store.AmcStore, customers store.CustomerStore) *AmcSubscriptionController {
	return &AmcSubscriptionController{amc: amc, customers: customers}
}

type CreateSubscriptionInput struct {
	CustomerID  uuid.UUID  `json:"customerId" binding:"required"`
	PlanID      uuid.UUID  `json:"planId" binding:"required"`
	StartDate   *time.Time `json:"startDate"`
	PaidAmount  float64    `json:"paidAmount" binding:"min=0"`
	AutoRenewal bool       `json:"autoRenewal"`
}

type UpdateSubscriptionInput struct {
	Status      *string `json:"status" binding:"omitempty,oneof=active suspended"`
	AutoRenewal *bool   `json:"autoRenewal"`
}

type RecordPaymentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type CancelSubscriptionInput struct {
	Reason string `json:"reason"`
}

// CreateSubscription sells a plan to a customer. The plan must exist and be
// active; pricing and visit entitlements are snapshotted from it.
func (sc *AmcSubscriptionController) CreateSubscription(c *gin.Context) {
	var input CreateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := sc.customers.GetCustomer(c.Request.Context(), input.CustomerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	plan, err := sc.amc.GetPlan(c.Request.Context(), input.PlanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !plan.IsActive {
		utils.RespondWithError(c, http.StatusNotFound, "Plan not found or inactive")
		return
	}

	startDate := time.Now()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	sub := models.AmcSubscription{
		SubscriptionNumber: utils.GenerateSubscriptionNumber(),
		CustomerID:         customer.ID,
		PlanID:             plan.ID,
		StartDate:          startDate,
		EndDate:            utils.AddMonths(startDate, plan.Duration),
		Status:             models.SubscriptionStatusActive,
		TotalAmount:        models.SubscriptionTotal(plan.Price, plan.GST),
		VisitsRemaining:    plan.NumberOfVisits,
		AutoRenewal:        input.AutoRenewal,
	}
	sub.ApplyPayment(input.PaidAmount)

	if err := sc.amc.CreateSubscription(c.Request.Context(), &sub); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Subscription created", sub)
}

func (sc *AmcSubscriptionController) GetSubscriptions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := store.SubscriptionFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	if cid := c.Query("customerId"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &id
	}

	subs, total, err := sc.amc.ListSubscriptions(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}

	utils.RespondPaginated(c, http.StatusOK, subs, page, limit, total)
}

func (sc *AmcSubscriptionController) GetSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	sub, err := sc.amc.GetSubscription(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", sub)
}

// UpdateSubscription changes status (active/suspended) or auto-renewal.
// Cancelled subscriptions are terminal and reject every update.
func (sc *AmcSubscriptionController) UpdateSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	var input UpdateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sub, err := sc.amc.GetSubscription(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if sub.Status == models.SubscriptionStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Subscription is cancelled")
		return
	}

	if input.Status != nil {
		sub.Status = *input.Status
	}
	if input.AutoRenewal != nil {
		sub.AutoRenewal = *input.AutoRenewal
	}
	sub.Customer = nil
	sub.Plan = nil

	if err := sc.amc.UpdateSubscription(c.Request.Context(), sub); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Subscription updated", sub)
}

// RecordPayment adds a payment towards the contract and re-derives balance
// and payment status.
func (sc *AmcSubscriptionController) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sub, err := sc.amc.GetSubscription(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if sub.Status == models.SubscriptionStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Subscription is cancelled")
		return
	}

	sub.ApplyPayment(sub.PaidAmount + input.Amount)
	sub.Customer = nil
	sub.Plan = nil

	if err := sc.amc.RecordPayment(c.Request.Context(), sub, input.Amount); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Payment recorded", sub)
}

// CancelSubscription is a one-way transition. A cancelled subscription stays
// cancelled; a second cancel conflicts and changes nothing.
func (sc *AmcSubscriptionController) CancelSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	var input CancelSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sub, err := sc.amc.GetSubscription(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if sub.Status == models.SubscriptionStatusCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Subscription already cancelled")
		return
	}

	now := time.Now()
	sub.Status = models.SubscriptionStatusCancelled
	sub.CancelledDate = &now
	sub.CancellationReason = input.Reason
	sub.Customer = nil
	sub.Plan = nil

	if err := sc.amc.UpdateSubscription(c.Request.Context(), sub); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel subscription")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Subscription cancelled", sub)
}
