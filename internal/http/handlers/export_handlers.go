package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"flightline/internal/export"
	"flightline/internal/models"
)

// BookingLister reads bookings for the export range.
type BookingLister interface {
	ListByRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
}

// ExportHandlers serves the spreadsheet downloads.
type ExportHandlers struct {
	bookings    BookingLister
	instructors InstructorStore
	logger      *zap.Logger
}

// NewExportHandlers builds handlers.
func NewExportHandlers(bookings BookingLister, instructors InstructorStore, logger *zap.Logger) *ExportHandlers {
	return &ExportHandlers{bookings: bookings, instructors: instructors, logger: logger}
}

// Bookings handles GET /api/export/bookings?from=...&to=...
func (h *ExportHandlers) Bookings(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookings, err := h.bookings.ListByRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("booking export query failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	body, err := export.BuildBookingsXLSX(bookings, from, to)
	if err != nil {
		h.logger.Error("booking export rendering failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	writeWorkbook(w, "bookings.xlsx", body)
}

// Roster handles GET /api/export/roster.
func (h *ExportHandlers) Roster(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.instructors.List(r.Context())
	if err != nil {
		h.logger.Error("roster export query failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	rules, err := h.instructors.AllRosterRules(r.Context())
	if err != nil {
		h.logger.Error("roster export query failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	body, err := export.BuildRosterXLSX(instructors, rules)
	if err != nil {
		h.logger.Error("roster export rendering failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	writeWorkbook(w, "roster.xlsx", body)
}

func writeWorkbook(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
