package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"flightline/internal/billing"
	"flightline/internal/repository"
	"flightline/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything unmapped
// is a 500 with a generic message; the caller logs the original error.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	var cerr *service.ConflictError
	if errors.As(err, &cerr) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     err.Error(),
			"conflicts": cerr.Conflicts,
		})
		return
	}

	switch {
	case errors.Is(err, billing.ErrDraftStale),
		errors.Is(err, billing.ErrAlreadyCommitted),
		errors.Is(err, billing.ErrEditInProgress),
		errors.Is(err, repository.ErrBookingAlreadyInvoiced):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, billing.ErrNothingToCalculate),
		errors.Is(err, billing.ErrNoApprovableLines):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoChargeRate),
		errors.Is(err, service.ErrNoChargeBasis),
		errors.Is(err, service.ErrAirswitchUnsupported):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, billing.ErrUnknownItem),
		errors.Is(err, service.ErrNoDraft),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrAircraftNotFound),
		errors.Is(err, repository.ErrInstructorNotFound),
		errors.Is(err, repository.ErrChargeRateNotFound),
		errors.Is(err, repository.ErrInvoiceNotFound),
		errors.Is(err, repository.ErrCheckInNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// queryTimeRange parses the from/to RFC3339 query parameters.
func queryTimeRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to must be RFC3339")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errors.New("to must be after from")
	}
	return from, to, nil
}
