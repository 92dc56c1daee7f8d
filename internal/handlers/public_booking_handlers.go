package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/services"
	"homeclean_backend/internal/wizard"
	"homeclean_backend/pkg/utils"
)

// PublicBookingHandler serves the customer-facing booking flow.
type PublicBookingHandler struct {
	bookingService services.BookingService
	catalogService services.CatalogService
}

// NewPublicBookingHandler creates a new PublicBookingHandler.
func NewPublicBookingHandler(bs services.BookingService, cs services.CatalogService) *PublicBookingHandler {
	return &PublicBookingHandler{bookingService: bs, catalogService: cs}
}

// GetServices lists the services a customer can book.
func (h *PublicBookingHandler) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.catalogService.PublicServices(c.Request.Context())})
}

// GetTimeSlots lists the slots for ?date=YYYY-MM-DD, or all slots unselectable without a date.
func (h *PublicBookingHandler) GetTimeSlots(c *gin.Context) {
	slots, err := h.bookingService.TimeSlots(c.Query("date"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format. Use YYYY-MM-DD.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slots})
}

// GetProgress evaluates a partial selection and reports the wizard step.
func (h *PublicBookingHandler) GetProgress(c *gin.Context) {
	var sel wizard.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}
	progress, err := h.bookingService.Progress(c.Request.Context(), sel)
	if err != nil {
		utils.LogError(err, "GetProgress: Error from bookingService.Progress")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to evaluate booking progress.", ""))
		return
	}
	c.JSON(http.StatusOK, progress)
}

// SubmitBooking runs the final step of the wizard.
func (h *PublicBookingHandler) SubmitBooking(c *gin.Context) {
	var draft wizard.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	confirmation, err := h.bookingService.SubmitBooking(c.Request.Context(), draft)
	if err != nil {
		if ve, ok := wizard.AsValidationError(err); ok {
			utils.RespondWithFieldErrors(c, "Please correct the highlighted fields.", ve.Fields)
			return
		}
		utils.LogError(err, "SubmitBooking: Error from bookingService.SubmitBooking")
		status := http.StatusInternalServerError
		code := utils.ErrCodeInternalServerError
		if errors.Is(err, wizard.ErrSubmissionInProgress) {
			status, code = http.StatusConflict, utils.ErrCodeWriteInProgress
		}
		utils.RespondWithError(c, utils.NewAPIError(status, code, wizard.SubmissionFailedMessage, ""))
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}
