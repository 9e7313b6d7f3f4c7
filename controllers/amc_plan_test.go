package controllers

import (
	"net/http"
	"testing"

	"aquaserve-backend/models"
	"aquaserve-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func planRouter(amc *fakeAmcStore) *gin.Engine {
	r := gin.New()
	r.Use(asUser(adminUser()))
	controller := NewAmcPlanController(amc)
	r.POST("/plans", controller.CreatePlan)
	r.GET("/plans", controller.GetPlans)
	r.PUT("/plans/:id", controller.UpdatePlan)
	return r
}

func TestCreatePlanDefaultsGST(t *testing.T) {
	var created *models.AmcPlan
	amc := &fakeAmcStore{
		createPlan: func(plan *models.AmcPlan) error { created = plan; return nil },
	}
	r := planRouter(amc)

	w := doJSON(t, r, http.MethodPost, "/plans", gin.H{
		"planCode":       "GOLD-12",
		"planName":       "Gold Annual",
		"duration":       12,
		"serviceType":    "RO Maintenance",
		"numberOfVisits": 4,
		"price":          5000,
	})
	wantStatus(t, w, http.StatusCreated)

	if created.GST != 18 {
		t.Errorf("gst = %v, want 18 default", created.GST)
	}
	if !created.IsActive {
		t.Error("new plans should start active")
	}
}

func TestCreatePlanDuplicateCode(t *testing.T) {
	existing := yearlyPlan()
	amc := &fakeAmcStore{
		getPlanByCode: func(code string) (*models.AmcPlan, error) { return existing, nil },
		createPlan: func(plan *models.AmcPlan) error {
			t.Fatal("duplicate plan code must not be persisted")
			return nil
		},
	}
	r := planRouter(amc)

	w := doJSON(t, r, http.MethodPost, "/plans", gin.H{
		"planCode":       existing.PlanCode,
		"planName":       "Another Gold",
		"duration":       12,
		"serviceType":    "RO Maintenance",
		"numberOfVisits": 4,
		"price":          6000,
	})
	wantStatus(t, w, http.StatusConflict)
}

func TestDeactivatePlan(t *testing.T) {
	plan := yearlyPlan()
	var saved *models.AmcPlan
	amc := &fakeAmcStore{
		getPlan:    func(id uuid.UUID) (*models.AmcPlan, error) { return plan, nil },
		updatePlan: func(p *models.AmcPlan) error { saved = p; return nil },
	}
	r := planRouter(amc)

	w := doJSON(t, r, http.MethodPut, "/plans/"+plan.ID.String(), gin.H{"isActive": false})
	wantStatus(t, w, http.StatusOK)
	if saved == nil || saved.IsActive {
		t.Error("plan was not deactivated")
	}
}

func TestGetPlansFiltersActive(t *testing.T) {
	var gotFilter store.PlanFilter
	amc := &fakeAmcStore{
		listPlans: func(filter store.PlanFilter) ([]models.AmcPlan, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	r := planRouter(amc)

	w := doJSON(t, r, http.MethodGet, "/plans?active=true", nil)
	wantStatus(t, w, http.StatusOK)
	if gotFilter.IsActive == nil || !*gotFilter.IsActive {
		t.Errorf("filter.IsActive = %v, want true", gotFilter.IsActive)
	}
}
