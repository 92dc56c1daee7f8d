package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/models"
	"homeclean_backend/internal/services"
	"homeclean_backend/pkg/utils"
)

// BookingHandler holds the booking administration service.
type BookingHandler struct {
	bookingService services.BookingAdminService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingAdminService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// GetBookings lists bookings, optionally filtered by ?status= and refined by ?search=.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	var filters models.BookingFilters
	if statusStr := c.Query("status"); statusStr != "" && statusStr != "all" {
		if !models.IsValidBookingStatus(statusStr) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status value.", "status: "+statusStr))
			return
		}
		status := models.BookingStatus(statusStr)
		filters.Status = &status
	}
	filters.Search = c.Query("search")

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), filters)
	if err != nil {
		utils.LogError(err, "GetBookings: Error from bookingService.ListBookings")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch bookings.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings, "total": len(bookings)})
}

// GetBookingByID returns one booking with its customer and service.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", ""))
			return
		}
		utils.LogError(err, "GetBookingByID: Error from bookingService.GetBooking", map[string]interface{}{"booking_id": c.Param("id")})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch booking.", ""))
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus applies a status change.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req services.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload", err.Error()))
		return
	}

	change, err := h.bookingService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		var transitionErr *services.TransitionError
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status value.", req.Status))
		case errors.Is(err, services.ErrBookingNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", ""))
		case errors.Is(err, services.ErrWriteInProgress):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeWriteInProgress, "An update to this booking is already in progress.", ""))
		case errors.As(err, &transitionErr):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, transitionErr.Error(), ""))
		default:
			utils.LogError(err, "UpdateBookingStatus: Error from bookingService.UpdateStatus", map[string]interface{}{"booking_id": c.Param("id")})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update booking status", ""))
		}
		return
	}
	c.JSON(http.StatusOK, change)
}

// GetBookingHistory lists the status changes of a booking, newest first.
func (h *BookingHandler) GetBookingHistory(c *gin.Context) {
	entries, err := h.bookingService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", ""))
			return
		}
		utils.LogError(err, "GetBookingHistory: Error from bookingService.History")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch status history.", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
