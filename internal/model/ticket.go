package model

import (
	"strings"
	"time"
)

// TicketStatus is the state of a support ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketResolved TicketStatus = "RESOLVED"
)

func (s TicketStatus) Valid() bool { return s == TicketOpen || s == TicketResolved }

// ParseTicketStatus maps user input onto a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	s := TicketStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// SupportTicket is an issue raised by a customer.
type SupportTicket struct {
	ID              uint64       `json:"id"`
	CustomerID      uint64       `json:"customer_id"`
	Username        string       `json:"username,omitempty"`
	IssueType       string       `json:"issue_type"`
	Description     string       `json:"description"`
	Status          TicketStatus `json:"status"`
	ResolutionNotes *string      `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"`
}
