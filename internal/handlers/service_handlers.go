package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/services"
	"homeclean_backend/pkg/utils"
)

// ServiceHandler manages the service catalog.
type ServiceHandler struct {
	catalogService services.CatalogService
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(cs services.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalogService: cs}
}

func (h *ServiceHandler) respondCatalogError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrServiceValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	case errors.Is(err, services.ErrServiceNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", ""))
	case errors.Is(err, services.ErrWriteInProgress):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeWriteInProgress, "A change to this service is already in progress.", ""))
	case errors.Is(err, services.ErrDeleteNotConfirmed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConfirmationNeeded,
			"Deleting a service must be confirmed. Request a confirmation token first.", ""))
	default:
		utils.LogError(err, "ServiceHandler: "+action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", ""))
	}
}

func (h *ServiceHandler) GetServices(c *gin.Context) {
	list, err := h.catalogService.ListServices(c.Request.Context())
	if err != nil {
		h.respondCatalogError(c, err, "fetch services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *ServiceHandler) CreateService(c *gin.Context) {
	var form services.ServiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}
	created, err := h.catalogService.CreateService(c.Request.Context(), form)
	if err != nil {
		h.respondCatalogError(c, err, "create service")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ServiceHandler) UpdateService(c *gin.Context) {
	var form services.ServiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}
	updated, err := h.catalogService.UpdateService(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		h.respondCatalogError(c, err, "update service")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RequestServiceDelete issues the confirmation token required by DeleteService.
func (h *ServiceHandler) RequestServiceDelete(c *gin.Context) {
	ticket, err := h.catalogService.RequestDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCatalogError(c, err, "request service deletion")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *ServiceHandler) DeleteService(c *gin.Context) {
	if err := h.catalogService.DeleteService(c.Request.Context(), c.Param("id"), c.Query("confirmation_token")); err != nil {
		h.respondCatalogError(c, err, "delete service")
		return
	}
	c.Status(http.StatusNoContent)
}
