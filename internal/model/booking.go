package model

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// bookingTransitions lists the statuses reachable from each state.
// CANCELLED may be re-applied so that a repeated cancel stays idempotent.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingCompleted},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
	BookingCancelled: {BookingCancelled},
	BookingCompleted: nil,
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether a booking in state s may move to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the booking still blocks its date range.
func (s BookingStatus) Active() bool { return s != BookingCancelled }

// ParseBookingStatus maps user input onto a BookingStatus.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and o share at least one day. Both ends are
// inclusive, so ranges that touch on a single day overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Days returns the inclusive number of days in the range. It counts from
// Unix seconds because time.Duration saturates after about 292 years.
func (r DateRange) Days() int {
	return int((DateOf(r.End).Unix()-DateOf(r.Start).Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero time.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDateRange
	}
	return t, nil
}

// NormalizeRange applies the booking form defaults: a missing start means
// today and a missing or earlier end collapses to the start day.
func NormalizeRange(start, end, today time.Time) DateRange {
	if start.IsZero() {
		start = today
	}
	start = DateOf(start)
	if end.IsZero() {
		end = start
	}
	end = DateOf(end)
	if end.Before(start) {
		end = start
	}
	return DateRange{Start: start, End: end}
}

// Booking reserves a venue for a customer over a date range. VenueName and
// Username are filled by joined reads and are not persisted.
type Booking struct {
	ID        uint64        `json:"id"`
	UserID    uint64        `json:"user_id"`
	VenueID   uint64        `json:"venue_id"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Status    BookingStatus `json:"status"`
	VenueName string        `json:"venue_name,omitempty"`
	Username  string        `json:"username,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Range returns the booked dates.
func (b Booking) Range() DateRange { return DateRange{Start: b.StartDate, End: b.EndDate} }

// Expired reports whether the booking ended before today but was never
// closed out.
func (b Booking) Expired(today time.Time) bool {
	if b.Status == BookingCompleted || b.Status == BookingCancelled {
		return false
	}
	return DateOf(b.EndDate).Before(DateOf(today))
}
