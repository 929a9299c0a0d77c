package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"flightline/internal/models"
)

// BuildBookingsXLSX renders the bookings of a date range as a workbook with a
// summary sheet and one row per booking.
func BuildBookingsXLSX(bookings []models.Booking, rangeStart, rangeEnd time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	bookingsSheet := "bookings"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Bookings Export")
	_ = f.SetCellValue(summarySheet, "A3", "From")
	_ = f.SetCellValue(summarySheet, "B3", rangeStart.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A4", "To")
	_ = f.SetCellValue(summarySheet, "B4", rangeEnd.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A5", "Bookings")
	_ = f.SetCellValue(summarySheet, "B5", len(bookings))

	headers := []string{"ID", "Student", "Aircraft", "Instructor", "Flight Type", "Start", "End", "Status", "Recurrence"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, h)
	}
	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), b.StudentID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), b.AircraftID)
		if b.InstructorID != 0 {
			_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), b.InstructorID)
		}
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), b.FlightTypeID)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), b.StartTime.Format(time.RFC3339))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), b.EndTime.Format(time.RFC3339))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), b.Status)
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("I%d", row), b.RecurrenceID)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// BuildRosterXLSX renders the instructor duty roster, one row per duty window.
func BuildRosterXLSX(instructors []models.Instructor, rules []models.RosterRule) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "roster"
	f.SetSheetName("Sheet1", sheet)

	names := make(map[int64]string, len(instructors))
	for _, ins := range instructors {
		names[ins.ID] = ins.Name
	}

	headers := []string{"Instructor", "Weekday", "From", "To"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, rule := range rules {
		row := i + 2
		name := names[rule.InstructorID]
		if name == "" {
			name = fmt.Sprintf("instructor %d", rule.InstructorID)
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), weekdayNames[rule.Weekday%7])
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), minutesClock(rule.StartMin))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), minutesClock(rule.EndMin))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func minutesClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
