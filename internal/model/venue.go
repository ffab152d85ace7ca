package model

import (
	"strings"
	"time"
)

// VenueStatus is the inventory state of a venue.
type VenueStatus string

const (
	VenueAvailable   VenueStatus = "AVAILABLE"
	VenueBooked      VenueStatus = "BOOKED"
	VenueMaintenance VenueStatus = "MAINTENANCE"
)

// Valid reports whether s is one of the known venue states.
func (s VenueStatus) Valid() bool {
	switch s {
	case VenueAvailable, VenueBooked, VenueMaintenance:
		return true
	}
	return false
}

// ParseVenueStatus normalises raw input. An empty string yields "" with no
// error so callers can treat it as "keep the current status".
func ParseVenueStatus(raw string) (VenueStatus, error) {
	s := VenueStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return "", nil
	}
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Venue is a bookable physical space with a daily price. It mirrors a row in
// the `venues` table.
type Venue struct {
	ID               uint64      `json:"id"`                   // venues.id
	Name             string      `json:"name"`                 // venues.name
	Location         string      `json:"location"`             // venues.location
	Capacity         int         `json:"capacity"`             // venues.capacity
	PricePerDayCents int64       `json:"price_per_day_cents"`  // venues.price_per_day_cents
	Status           VenueStatus `json:"status"`               // venues.status
	ImagePath        *string     `json:"image_path,omitempty"` // venues.image_path (nullable)
	CreatedAt        time.Time   `json:"created_at"`           // venues.created_at
	UpdatedAt        time.Time   `json:"updated_at"`           // venues.updated_at
}

// MaxPricePerDayCents caps the daily price. Multiplied by the longest
// possible booking it still fits in int64.
const MaxPricePerDayCents int64 = 100_000_000_000

// PricePerDay returns the daily price in currency units.
func (v Venue) PricePerDay() float64 { return float64(v.PricePerDayCents) / 100.0 }

// Bookable reports whether new bookings may be placed on the venue.
func (v Venue) Bookable() bool { return v.Status != VenueMaintenance }
