package model

import (
	"strings"
	"time"
)

// PaymentStatus is the state of a booking's payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentRefunded:
		return true
	}
	return false
}

// ParsePaymentStatus maps user input onto a PaymentStatus.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Payment is the single payment attached to a booking.
type Payment struct {
	ID          uint64        `json:"id"`
	BookingID   uint64        `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      PaymentStatus `json:"status"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	VenueName   string        `json:"venue_name,omitempty"`
	Username    string        `json:"username,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Amount returns the amount in currency units.
func (p Payment) Amount() float64 { return float64(p.AmountCents) / 100.0 }

// AmountFor prices a date range at the venue's daily rate. Both the first and
// last day are charged.
func AmountFor(pricePerDayCents int64, r DateRange) int64 {
	return pricePerDayCents * int64(r.Days())
}

// PaymentStats aggregates payments for reporting.
type PaymentStats struct {
	EarningsCents int64                   `json:"earnings_cents"`
	RefundedCents int64                   `json:"refunded_cents"`
	CountByStatus map[PaymentStatus]int64 `json:"count_by_status"`
}
