package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"flightline/internal/billing"
	"flightline/internal/observability/metrics"
	"flightline/internal/service"
)

// CheckInHandlers serves the check-in billing calculator endpoints. All routes
// are keyed by the booking id in the path; the form inputs ride in the body so
// the server can derive draft staleness against them.
type CheckInHandlers struct {
	checkins *service.CheckInService
	logger   *zap.Logger
}

// NewCheckInHandlers builds handlers.
func NewCheckInHandlers(checkins *service.CheckInService, logger *zap.Logger) *CheckInHandlers {
	return &CheckInHandlers{checkins: checkins, logger: logger}
}

func (h *CheckInHandlers) decodeInput(w http.ResponseWriter, r *http.Request) (service.CheckInInput, bool) {
	var input service.CheckInInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return input, false
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return input, false
	}
	input.BookingID = id
	return input, true
}

// Calculate handles POST /api/bookings/{id}/checkin/calculate.
func (h *CheckInHandlers) Calculate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	view, err := h.checkins.Calculate(r.Context(), input)
	if err != nil {
		metrics.CountCalculation("error")
		h.logError("calculate", input.BookingID, err)
		writeServiceError(w, err)
		return
	}
	metrics.CountCalculation("success")
	writeJSON(w, http.StatusOK, view)
}

// Draft handles POST /api/bookings/{id}/checkin/draft. It is a read in POST
// clothing: the current form inputs are needed to derive the draft state.
func (h *CheckInHandlers) Draft(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	view, err := h.checkins.Draft(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type editRequest struct {
	ItemID string `json:"item_id"`
}

// BeginEdit handles POST /api/bookings/{id}/checkin/edit.
func (h *CheckInHandlers) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req editRequest
	if err := decodeJSON(r, &req); err != nil || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id required")
		return
	}
	if err := h.checkins.BeginEdit(r.Context(), id, req.ItemID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ApplyEdit handles PUT /api/bookings/{id}/checkin/edit.
func (h *CheckInHandlers) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var edit service.LineEdit
	if err := decodeJSON(r, &edit); err != nil || edit.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id required")
		return
	}
	if err := h.checkins.ApplyEdit(r.Context(), id, edit); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// CancelEdit handles DELETE /api/bookings/{id}/checkin/edit.
func (h *CheckInHandlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.checkins.CancelEdit(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// AddManualItem handles POST /api/bookings/{id}/checkin/items.
func (h *CheckInHandlers) AddManualItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var item billing.BuilderItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	item.Source = billing.SourceManual
	if item.Description == "" || !item.Valid() {
		writeError(w, http.StatusBadRequest, "item requires a description, a positive quantity and a non-negative unit price")
		return
	}
	if err := h.checkins.AddManualItem(r.Context(), id, item); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

// RemoveItem handles DELETE /api/bookings/{id}/checkin/items/{itemID}.
func (h *CheckInHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	itemID := r.PathValue("itemID")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id required")
		return
	}
	if err := h.checkins.RemoveLine(r.Context(), id, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ReinstateItem handles POST /api/bookings/{id}/checkin/items/{itemID}/reinstate.
func (h *CheckInHandlers) ReinstateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	itemID := r.PathValue("itemID")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "item id required")
		return
	}
	if err := h.checkins.ReinstateLine(r.Context(), id, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Approve handles POST /api/bookings/{id}/checkin/approve.
func (h *CheckInHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	invoice, err := h.checkins.Approve(r.Context(), input)
	if err != nil {
		metrics.CountApproval("error")
		h.logError("approve", input.BookingID, err)
		writeServiceError(w, err)
		return
	}
	metrics.CountApproval("success")
	writeJSON(w, http.StatusCreated, invoice)
}

// Correct handles POST /api/bookings/{id}/checkin/correct.
func (h *CheckInHandlers) Correct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var input service.CorrectionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	input.BookingID = id
	if err := h.checkins.Correct(r.Context(), input); err != nil {
		h.logError("correct", id, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// DiscardDraft handles DELETE /api/bookings/{id}/checkin/draft.
func (h *CheckInHandlers) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.checkins.DiscardDraft(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CheckInHandlers) logError(op string, bookingID int64, err error) {
	h.logger.Warn("check-in operation failed",
		zap.String("op", op),
		zap.Int64("booking_id", bookingID),
		zap.Error(err),
	)
}
