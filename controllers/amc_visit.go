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

type AmcVisitController struct {
	amc   store.AmcStore
	users store.UserStore
}

func NewAmcVisitController(amc store.AmcStore, users store.UserStore) *AmcVisitController {
	return &AmcVisitController{amc: amc, users: users}
}

type CreateVisitInput struct {
	SubscriptionID uuid.UUID  `json:"subscriptionId" binding:"required"`
	OrderID        *uuid.UUID `json:"orderId"`
	VisitType      string     `json:"visitType" binding:"omitempty,oneof=scheduled emergency callback"`
	ScheduledDate  *time.Time `json:"scheduledDate"`
	TechnicianID   *uuid.UUID `json:"technicianId"`
}

type UpdateVisitInput struct {
	Status            *string    `json:"status"`
	ScheduledDate     *time.Time `json:"scheduledDate"`
	ServicePerformed  *string    `json:"servicePerformed"`
	PartsReplaced     *[]string  `json:"partsReplaced"`
	AdditionalCharges *float64   `json:"additionalCharges" binding:"omitempty,min=0"`
	TechnicianID      *uuid.UUID `json:"technicianId"`
	CustomerRating    *int       `json:"customerRating" binding:"omitempty,min=1,max=5"`
	CustomerFeedback  *string    `json:"customerFeedback"`
}

// checkTechnician validates that a technician id references an active employee.
func (vc *AmcVisitController) checkTechnician(c *gin.Context, id uuid.UUID) bool {
	technician, err := vc.users.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Technician not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}
	if technician.Role != models.RoleEmployee || !technician.IsActive {
		utils.RespondWithError(c, http.StatusBadRequest, "Technician must be an active employee")
		return false
	}
	return true
}

// CreateVisit schedules a service visit under a subscription.
func (vc *AmcVisitController) CreateVisit(c *gin.Context) {
	var input CreateVisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, err := vc.amc.GetSubscription(c.Request.Context(), input.SubscriptionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.TechnicianID != nil && !vc.checkTechnician(c, *input.TechnicianID) {
		return
	}

	visitType := input.VisitType
	if visitType == "" {
		visitType = models.VisitTypeScheduled
	}

	visit := models.AmcVisit{
		VisitNumber:    utils.GenerateVisitNumber(),
		SubscriptionID: input.SubscriptionID,
		OrderID:        input.OrderID,
		VisitType:      visitType,
		ScheduledDate:  input.ScheduledDate,
		Status:         models.VisitStatusScheduled,
		TechnicianID:   input.TechnicianID,
	}

	if err := vc.amc.CreateVisit(c.Request.Context(), &visit); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create visit")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Visit created", visit)
}

func (vc *AmcVisitController) GetVisits(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := store.VisitFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	if sid := c.Query("subscriptionId"); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
			return
		}
		filter.SubscriptionID = &id
	}
	if tid := c.Query("technicianId"); tid != "" {
		id, err := uuid.Parse(tid)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid technician ID format")
			return
		}
		filter.TechnicianID = &id
	}

	visits, total, err := vc.amc.ListVisits(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve visits")
		return
	}

	utils.RespondPaginated(c, http.StatusOK, visits, page, limit, total)
}

func (vc *AmcVisitController) GetVisit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	visit, err := vc.amc.GetVisit(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", visit)
}

// UpdateVisit records service details and status. Completing a visit
// consumes one entitlement on the owning subscription; moving a completed
// visit back out of completed returns it. Both happen in the same
// transaction as the visit write.
func (vc *AmcVisitController) UpdateVisit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var input UpdateVisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Status != nil && !models.ValidVisitStatus(*input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit status")
		return
	}

	visit, err := vc.amc.GetVisit(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.TechnicianID != nil && !vc.checkTechnician(c, *input.TechnicianID) {
		return
	}

	if input.ScheduledDate != nil {
		visit.ScheduledDate = input.ScheduledDate
	}
	if input.ServicePerformed != nil {
		visit.ServicePerformed = *input.ServicePerformed
	}
	if input.PartsReplaced != nil {
		visit.PartsReplaced = *input.PartsReplaced
	}
	if input.AdditionalCharges != nil {
		visit.AdditionalCharges = *input.AdditionalCharges
	}
	if input.TechnicianID != nil {
		visit.TechnicianID = input.TechnicianID
	}
	if input.CustomerRating != nil {
		visit.CustomerRating = input.CustomerRating
	}
	if input.CustomerFeedback != nil {
		visit.CustomerFeedback = *input.CustomerFeedback
	}

	// Completion is tracked by CompletedDate so the counters move exactly
	// once no matter how many times the same status is re-sent.
	counterDelta := 0
	if input.Status != nil {
		wasCompleted := visit.CompletedDate != nil
		visit.Status = *input.Status

		if *input.Status == models.VisitStatusCompleted && !wasCompleted {
			now := time.Now()
			visit.CompletedDate = &now
			counterDelta = 1
		}
		if *input.Status != models.VisitStatusCompleted && wasCompleted {
			visit.CompletedDate = nil
			counterDelta = -1
		}
	}
	visit.Technician = nil
	visit.Subscription = nil

	if err := vc.amc.UpdateVisit(c.Request.Context(), visit, counterDelta); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update visit")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Visit updated", visit)
}
