package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"flightline/internal/models"
)

// BuildInvoicePDF renders an approved invoice with its line items and the
// meter readings it was billed from.
func BuildInvoicePDF(invoice *models.Invoice, items []models.InvoiceItem, checkIn *models.CheckIn) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	doc.AddPage()

	doc.SetFont("Arial", "B", 14)
	doc.Cell(0, 8, fmt.Sprintf("Invoice %s", invoice.Number))
	doc.Ln(10)

	doc.SetFont("Arial", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Booking: %d", invoice.BookingID))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Student: %d", invoice.StudentID))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Issued: %s", invoice.CreatedAt.Format(time.RFC3339)))
	doc.Ln(8)

	if checkIn != nil {
		doc.Cell(0, 6, fmt.Sprintf("Billed on %s: %.1f hours (dual %.1f, solo %.1f)",
			checkIn.BillingBasis, checkIn.BillingHours, checkIn.DualTime, checkIn.SoloTime))
		doc.Ln(5)
		if checkIn.HobbsStart != nil && checkIn.HobbsEnd != nil {
			doc.Cell(0, 6, fmt.Sprintf("Hobbs: %.1f - %.1f", *checkIn.HobbsStart, *checkIn.HobbsEnd))
			doc.Ln(5)
		}
		if checkIn.TachoStart != nil && checkIn.TachoEnd != nil {
			doc.Cell(0, 6, fmt.Sprintf("Tacho: %.1f - %.1f", *checkIn.TachoStart, *checkIn.TachoEnd))
			doc.Ln(5)
		}
		if checkIn.CorrectionReason != "" {
			doc.Cell(0, 6, fmt.Sprintf("Corrected: %s", checkIn.CorrectionReason))
			doc.Ln(5)
		}
		doc.Ln(3)
	}

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(70, 6, "Description", "1", 0, "L", false, 0, "")
	doc.CellFormat(20, 6, "Qty", "1", 0, "C", false, 0, "")
	doc.CellFormat(30, 6, "Unit Price", "1", 0, "C", false, 0, "")
	doc.CellFormat(30, 6, "Tax", "1", 0, "C", false, 0, "")
	doc.CellFormat(30, 6, "Total", "1", 0, "C", false, 0, "")
	doc.Ln(-1)

	doc.SetFont("Arial", "", 10)
	for _, item := range items {
		doc.CellFormat(70, 6, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 6, fmt.Sprintf("%.1f", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%.2f", item.TaxAmount), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%.2f", item.LineTotal), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	doc.Ln(4)
	doc.SetFont("Arial", "B", 10)
	doc.Cell(0, 6, fmt.Sprintf("Subtotal: %.2f", invoice.Subtotal))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Tax: %.2f", invoice.Tax))
	doc.Ln(5)
	doc.Cell(0, 6, fmt.Sprintf("Total: %.2f", invoice.Total))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
