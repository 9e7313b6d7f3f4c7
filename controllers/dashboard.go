package controllers

import (
	"net/http"

	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	stats store.StatsStore
}

func NewDashboardController(stats store.StatsStore) *DashboardController {
	return &DashboardController{stats: stats}
}

// GetDashboardOverview returns the aggregate counts shown on the admin
// console landing page.
func (d *DashboardController) GetDashboardOverview(c *gin.Context) {
	stats, err := d.stats.DashboardStats(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve dashboard stats")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "", stats)
}
