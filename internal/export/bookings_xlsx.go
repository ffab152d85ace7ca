// Package export renders reporting data into spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/venue-booking/internal/model"
)

const bookingsSheet = "Bookings"

var bookingHeaders = []string{"ID", "Venue", "Customer", "Start", "End", "Days", "Status"}

// statusFill colours the status cell per booking status.
var statusFill = map[model.BookingStatus]string{
	model.BookingPending:   "#FFF2CC",
	model.BookingConfirmed: "#E2EFDA",
	model.BookingCancelled: "#F8CBAD",
	model.BookingCompleted: "#DDEBF7",
}

// BookingsXLSX writes one row per booking to w as an .xlsx workbook.
func BookingsXLSX(w io.Writer, bookings []model.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, h := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(bookingsSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
	if err := f.SetCellStyle(bookingsSheet, "A1", last, header); err != nil {
		return err
	}

	styles := make(map[model.BookingStatus]int, len(statusFill))
	for status, color := range statusFill {
		id, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}})
		if err != nil {
			return fmt.Errorf("status style: %w", err)
		}
		styles[status] = id
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID,
			b.VenueName,
			b.Username,
			b.StartDate.Format(model.DateLayout),
			b.EndDate.Format(model.DateLayout),
			b.Range().Days(),
			string(b.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(bookingsSheet, cell, v); err != nil {
				return err
			}
		}
		if id, ok := styles[b.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(bookingsSheet, cell, cell, id); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(bookingsSheet, "B", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(bookingsSheet, "D", "E", 12); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
