package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/services"
	"homeclean_backend/pkg/utils"
)

// CustomerHandler lists customers.
type CustomerHandler struct {
	customerService services.CustomerService
}

func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.LogError(err, "GetCustomers: Error from customerService.ListCustomers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch customers.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers, "total": len(customers)})
}

// DashboardHandler serves the dashboard counters.
type DashboardHandler struct {
	statsService services.StatsService
}

func NewDashboardHandler(ss services.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: ss}
}

// GetStats always answers 200; a failed counter carries its own error.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsService.DashboardStats(c.Request.Context()))
}
