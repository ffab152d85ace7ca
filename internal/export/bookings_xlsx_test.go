package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/venue-booking/internal/model"
)

func TestBookingsXLSX(t *testing.T) {
	bookings := []model.Booking{
		{
			ID: 1, VenueName: "Grand Hall", Username: "alice", Status: model.BookingConfirmed,
			StartDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, VenueName: "Rooftop", Username: "bob", Status: model.BookingCancelled,
			StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, BookingsXLSX(&buf, bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bookingHeaders, rows[0])
	assert.Equal(t, []string{"1", "Grand Hall", "alice", "2025-06-10", "2025-06-12", "3", "CONFIRMED"}, rows[1])
	assert.Equal(t, "CANCELLED", rows[2][6])
}

func TestBookingsXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BookingsXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
