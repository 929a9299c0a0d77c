package handlers

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"flightline/internal/models"
	"flightline/internal/pdf"
)

// InvoiceStore reads committed invoices.
type InvoiceStore interface {
	GetByID(ctx context.Context, id int64) (*models.Invoice, []models.InvoiceItem, error)
	GetCheckIn(ctx context.Context, bookingID int64) (*models.CheckIn, error)
}

// InvoiceHandlers serves committed invoices and their PDF rendition.
type InvoiceHandlers struct {
	invoices InvoiceStore
	logger   *zap.Logger
}

// NewInvoiceHandlers builds handlers.
func NewInvoiceHandlers(invoices InvoiceStore, logger *zap.Logger) *InvoiceHandlers {
	return &InvoiceHandlers{invoices: invoices, logger: logger}
}

// Get handles GET /api/invoices/{id}.
func (h *InvoiceHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	invoice, items, err := h.invoices.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invoice": invoice,
		"items":   items,
	})
}

// PDF handles GET /api/invoices/{id}/pdf.
func (h *InvoiceHandlers) PDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	invoice, items, err := h.invoices.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The check-in block is optional on the PDF; a lookup failure only
	// drops the meter readings section.
	checkIn, err := h.invoices.GetCheckIn(r.Context(), invoice.BookingID)
	if err != nil {
		checkIn = nil
	}

	body, err := pdf.BuildInvoicePDF(invoice, items, checkIn)
	if err != nil {
		h.logger.Error("invoice pdf rendering failed", zap.Int64("invoice_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
