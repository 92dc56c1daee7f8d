package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeclean_backend/internal/models"
	"homeclean_backend/internal/services"
	"homeclean_backend/internal/wizard"
	"homeclean_backend/pkg/utils"
)

type stubBookingService struct {
	services.BookingService
	confirmation *wizard.Confirmation
	err          error
}

func (s stubBookingService) SubmitBooking(context.Context, wizard.Draft) (*wizard.Confirmation, error) {
	return s.confirmation, s.err
}

func (s stubBookingService) TimeSlots(date string) ([]wizard.SlotAvailability, error) {
	if date == "not-a-date" {
		return nil, fmt.Errorf("parsing date %q", date)
	}
	return []wizard.SlotAvailability{}, nil
}

type stubAdminService struct {
	services.BookingAdminService
	change  *services.StatusChange
	err     error
	filters models.BookingFilters
}

func (s *stubAdminService) UpdateStatus(_ context.Context, id, status string) (*services.StatusChange, error) {
	return s.change, s.err
}

func (s *stubAdminService) ListBookings(_ context.Context, f models.BookingFilters) ([]services.BookingView, error) {
	s.filters = f
	return []services.BookingView{}, nil
}

type stubCatalogService struct {
	services.CatalogService
	err error
}

func (s stubCatalogService) DeleteService(context.Context, string, string) error { return s.err }

type stubStatsService struct{ stats models.DashboardStats }

func (s stubStatsService) DashboardStats(context.Context) models.DashboardStats { return s.stats }

type errorBody struct {
	Error  utils.APIError    `json:"error"`
	Fields map[string]string `json:"fields"`
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func publicRouter(bs services.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPublicBookingHandler(bs, nil)
	r.GET("/time-slots", h.GetTimeSlots)
	r.POST("/bookings", h.SubmitBooking)
	return r
}

func TestSubmitBooking(t *testing.T) {
	t.Run("incomplete form reports every field", func(t *testing.T) {
		fields := wizard.FieldErrors{"fullName": "Full name is required", "phone": "Phone number is required"}
		r := publicRouter(stubBookingService{err: &wizard.ValidationError{Fields: fields}})

		w := perform(r, http.MethodPost, "/bookings", `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, utils.ErrCodeValidationFailed, body.Error.Code)
		assert.Equal(t, "Full name is required", body.Fields["fullName"])
		assert.Len(t, body.Fields, 2)
	})

	t.Run("storage failure shows generic message", func(t *testing.T) {
		r := publicRouter(stubBookingService{err: fmt.Errorf("%w: insert", wizard.ErrSubmissionFailed)})

		w := perform(r, http.MethodPost, "/bookings", `{}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, wizard.SubmissionFailedMessage, decodeError(t, w).Error.Message)
	})

	t.Run("success returns the confirmation", func(t *testing.T) {
		r := publicRouter(stubBookingService{confirmation: &wizard.Confirmation{Reference: "3F9A1C2E", BookingID: "b-1"}})

		w := perform(r, http.MethodPost, "/bookings", `{"service_id":"deep-clean"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"booking_reference":"3F9A1C2E"`)
	})
}

func TestGetTimeSlotsRejectsBadDate(t *testing.T) {
	r := publicRouter(stubBookingService{})

	w := perform(r, http.MethodGet, "/time-slots?date=not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/time-slots", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateBookingStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unknown status", fmt.Errorf("%w: archived", services.ErrInvalidStatus), http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{"missing booking", services.ErrBookingNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
		{"concurrent update", services.ErrWriteInProgress, http.StatusConflict, utils.ErrCodeWriteInProgress},
		{"disallowed move", &services.TransitionError{From: models.BookingStatusCompleted, To: models.BookingStatusPending}, http.StatusConflict, utils.ErrCodeConflict},
		{"history write failed", services.ErrStatusHistory, http.StatusInternalServerError, utils.ErrCodeInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			h := NewBookingHandler(&stubAdminService{err: tt.err})
			r.PATCH("/bookings/:id/status", h.UpdateBookingStatus)

			w := perform(r, http.MethodPatch, "/bookings/b-1/status", `{"status":"pending"}`)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w).Error.Code)
		})
	}
}

func TestUpdateBookingStatusSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	change := &services.StatusChange{BookingID: "b-1", OldStatus: models.BookingStatusPending, NewStatus: models.BookingStatusConfirmed, Changed: true}
	r.PATCH("/bookings/:id/status", NewBookingHandler(&stubAdminService{change: change}).UpdateBookingStatus)

	w := perform(r, http.MethodPatch, "/bookings/b-1/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"new_status":"confirmed"`)

	w = perform(r, http.MethodPatch, "/bookings/b-1/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingsFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubAdminService{}
	r := gin.New()
	r.GET("/bookings", NewBookingHandler(stub).GetBookings)

	w := perform(r, http.MethodGet, "/bookings?status=confirmed&search=mar", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.filters.Status)
	assert.Equal(t, models.BookingStatusConfirmed, *stub.filters.Status)
	assert.Equal(t, "mar", stub.filters.Search)

	w = perform(r, http.MethodGet, "/bookings?status=all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.filters.Status)

	w = perform(r, http.MethodGet, "/bookings?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteServiceNeedsConfirmation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/services/:id", NewServiceHandler(stubCatalogService{err: services.ErrDeleteNotConfirmed}).DeleteService)

	w := perform(r, http.MethodDelete, "/services/s-1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, utils.ErrCodeConfirmationNeeded, decodeError(t, w).Error.Code)

	r = gin.New()
	r.DELETE("/services/:id", NewServiceHandler(stubCatalogService{}).DeleteService)
	w = perform(r, http.MethodDelete, "/services/s-1?confirmation_token=abc", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetStatsReportsPartialFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	stats := models.DashboardStats{
		TotalBookings:  models.StatCount{Value: 12},
		TotalCustomers: models.StatCount{Error: "unavailable"},
	}
	r.GET("/stats", NewDashboardHandler(stubStatsService{stats: stats}).GetStats)

	w := perform(r, http.MethodGet, "/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 12, got.TotalBookings.Value)
	assert.Equal(t, "unavailable", got.TotalCustomers.Error)
}
