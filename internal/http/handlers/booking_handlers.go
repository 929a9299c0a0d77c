package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"flightline/internal/observability/metrics"
	"flightline/internal/scheduling"
	"flightline/internal/service"
)

// BookingHandlers serves the scheduler endpoints.
type BookingHandlers struct {
	bookings     *service.BookingService
	availability scheduling.AvailabilityLookup
	logger       *zap.Logger
}

// NewBookingHandlers builds handlers.
func NewBookingHandlers(bookings *service.BookingService, availability scheduling.AvailabilityLookup, logger *zap.Logger) *BookingHandlers {
	return &BookingHandlers{bookings: bookings, availability: availability, logger: logger}
}

// List handles GET /api/bookings?from=...&to=... and returns each booking with
// its timeline layout for the requested window.
func (h *BookingHandlers) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.bookings.ListRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("list bookings failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": entries})
}

// Get handles GET /api/bookings/{id}.
func (h *BookingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Availability handles GET /api/availability?from=...&to=... and returns the
// resources already taken for the exact range.
func (h *BookingHandlers) Availability(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	availability, err := h.availability.AvailabilityForRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("availability query failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

type createBookingRequest struct {
	service.BookingInput

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Create handles POST /api/bookings.
func (h *BookingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	booking, err := h.bookings.Create(r.Context(), req.BookingInput, req.StartTime, req.EndTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.CountBookingCreated("single")
	writeJSON(w, http.StatusCreated, booking)
}

// CreateRecurring handles POST /api/bookings/recurring. A partial batch
// failure is a 207: the body lists both created and failed occurrences.
func (h *BookingHandlers) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req service.RecurringInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.bookings.CreateRecurring(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.CountBookingCreated("recurring")

	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}
