// Package queue defines the booking domain events and moves them over
// RabbitMQ.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// QueueName is the durable queue that carries every booking event.
const QueueName = "booking.events"

// EventType names what happened to a booking.
type EventType string

const (
	BookingCreated   EventType = "booking.created"
	BookingConfirmed EventType = "booking.confirmed"
	BookingCancelled EventType = "booking.cancelled"
	BookingCompleted EventType = "booking.completed"
	PaymentRefunded  EventType = "payment.refunded"
)

// BookingEvent carries enough booking detail for consumers to log or notify
// without querying the primary database.
type BookingEvent struct {
	ID          string              `json:"id"`
	Type        EventType           `json:"type"`
	BookingID   uint64              `json:"booking_id"`
	UserID      uint64              `json:"user_id"`
	VenueID     uint64              `json:"venue_id"`
	VenueName   string              `json:"venue_name"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Status      model.BookingStatus `json:"status"`
	AmountCents int64               `json:"amount_cents,omitempty"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewBookingEvent fills an event from b. AmountCents is left for the caller.
func NewBookingEvent(t EventType, b *model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       t,
		BookingID:  b.ID,
		UserID:     b.UserID,
		VenueID:    b.VenueID,
		VenueName:  b.VenueName,
		StartDate:  b.StartDate.Format(model.DateLayout),
		EndDate:    b.EndDate.Format(model.DateLayout),
		Status:     b.Status,
		OccurredAt: at.UTC(),
	}
}

// LogLine renders the event as a single human-friendly line.
func (e BookingEvent) LogLine() string {
	line := fmt.Sprintf("[%s] %s | booking_id=%d | user_id=%d | venue_id=%d | venue=%q | dates=%s..%s | status=%s",
		e.OccurredAt.UTC().Format(time.RFC3339), e.Type, e.BookingID, e.UserID, e.VenueID, e.VenueName,
		e.StartDate, e.EndDate, e.Status)
	if e.AmountCents != 0 {
		line += fmt.Sprintf(" | amount=%d cents", e.AmountCents)
	}
	return line + "\n"
}
