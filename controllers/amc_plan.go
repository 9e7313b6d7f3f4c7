package controllers

import (
	"errors"
	"net/http"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AmcPlanController struct {
	amc store.AmcStore
}

func NewAmcPlanController(amc store.AmcStore) *AmcPlanController {
	return &AmcPlanController{amc: amc}
}

type CreatePlanInput struct {
	PlanCode       string   `json:"planCode" binding:"required"`
	PlanName       string   `json:"planName" binding:"required"`
	Duration       int      `json:"duration" binding:"required,min=1"`
	ServiceType    string   `json:"serviceType" binding:"required"`
	NumberOfVisits int      `json:"numberOfVisits" binding:"required,min=1"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	GST            *float64 `json:"gst" binding:"omitempty,min=0,max=100"`
	Features       []string `json:"features"`
}

type UpdatePlanInput struct {
	PlanName       *string   `json:"planName"`
	Duration       *int      `json:"duration" binding:"omitempty,min=1"`
	ServiceType    *string   `json:"serviceType"`
	NumberOfVisits *int      `json:"numberOfVisits" binding:"omitempty,min=1"`
	Price          *float64  `json:"price" binding:"omitempty,gt=0"`
	GST            *float64  `json:"gst" binding:"omitempty,min=0,max=100"`
	Features       *[]string `json:"features"`
	IsActive       *bool     `json:"isActive"`
}

func (p *AmcPlanController) CreatePlan(c *gin.Context) {
	var input CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, err := p.amc.GetPlanByCode(c.Request.Context(), input.PlanCode); err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Plan with this code already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	gst := 18.0
	if input.GST != nil {
		gst = *input.GST
	}

	plan := models.AmcPlan{
		PlanCode:       input.PlanCode,
		PlanName:       input.PlanName,
		Duration:       input.Duration,
		ServiceType:    input.ServiceType,
		NumberOfVisits: input.NumberOfVisits,
		Price:          input.Price,
		GST:            gst,
		Features:       input.Features,
		IsActive:       true,
	}

	if err := p.amc.CreatePlan(c.Request.Context(), &plan); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(c, http.StatusConflict, "Plan with this code already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Plan created", plan)
}

func (p *AmcPlanController) GetPlans(c *gin.Context) {
	filter := store.PlanFilter{}
	if active := c.Query("active"); active != "" {
		isActive := active == "true"
		filter.IsActive = &isActive
	}

	plans, err := p.amc.ListPlans(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", plans)
}

func (p *AmcPlanController) GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, err := p.amc.GetPlan(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", plan)
}

// UpdatePlan edits the pricing template. Existing subscriptions are not
// affected; they carry their own snapshot of the totals.
func (p *AmcPlanController) UpdatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var input UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	plan, err := p.amc.GetPlan(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Plan not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.PlanName != nil {
		plan.PlanName = *input.PlanName
	}
	if input.Duration != nil {
		plan.Duration = *input.Duration
	}
	if input.ServiceType != nil {
		plan.ServiceType = *input.ServiceType
	}
	if input.NumberOfVisits != nil {
		plan.NumberOfVisits = *input.NumberOfVisits
	}
	if input.Price != nil {
		plan.Price = *input.Price
	}
	if input.GST != nil {
		plan.GST = *input.GST
	}
	if input.Features != nil {
		plan.Features = *input.Features
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}

	if err := p.amc.UpdatePlan(c.Request.Context(), plan); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Plan updated", plan)
}
