package service

import (
	"context"
	"fmt"
	"io"

	"github.com/iliyamo/venue-booking/internal/export"
	"github.com/iliyamo/venue-booking/internal/model"
)

// DashboardStats is the administrator overview.
type DashboardStats struct {
	Venues           int64                         `json:"venues"`
	Bookings         int64                         `json:"bookings"`
	OpenTickets      int64                         `json:"open_tickets"`
	PendingApprovals int64                         `json:"pending_approvals"`
	EarningsCents    int64                         `json:"earnings_cents"`
	RefundedCents    int64                         `json:"refunded_cents"`
	Payments         map[model.PaymentStatus]int64 `json:"payments"`
}

// DashboardService aggregates counts across all stores.
type DashboardService struct {
	venues   VenueStore
	tickets  TicketStore
	users    UserStore
	payments PaymentStore
	bookings *BookingService
}

func NewDashboardService(venues VenueStore, tickets TicketStore, users UserStore, payments PaymentStore, bookings *BookingService) *DashboardService {
	return &DashboardService{venues: venues, tickets: tickets, users: users, payments: payments, bookings: bookings}
}

// Admin collects the dashboard figures.
func (s *DashboardService) Admin(ctx context.Context) (DashboardStats, error) {
	var (
		st  DashboardStats
		err error
	)
	if st.Venues, err = s.venues.Count(ctx); err != nil {
		return st, fmt.Errorf("count venues: %w", err)
	}
	if st.Bookings, err = s.bookings.bookings.Count(ctx); err != nil {
		return st, fmt.Errorf("count bookings: %w", err)
	}
	if st.OpenTickets, err = s.tickets.CountOpen(ctx); err != nil {
		return st, fmt.Errorf("count tickets: %w", err)
	}
	if st.PendingApprovals, err = s.users.CountByRole(ctx, model.RoleEventManager, false); err != nil {
		return st, fmt.Errorf("count approvals: %w", err)
	}
	ps, err := s.payments.Stats(ctx)
	if err != nil {
		return st, fmt.Errorf("payment stats: %w", err)
	}
	st.EarningsCents = ps.EarningsCents
	st.RefundedCents = ps.RefundedCents
	st.Payments = ps.CountByStatus
	return st, nil
}

// ExportBookings writes every booking to w as an XLSX workbook.
func (s *DashboardService) ExportBookings(ctx context.Context, w io.Writer) error {
	all, err := s.bookings.All(ctx)
	if err != nil {
		return err
	}
	return export.BookingsXLSX(w, all)
}
