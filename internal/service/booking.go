package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/metrics"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
)

// BookingService owns the booking lifecycle: creation with conflict
// detection, status transitions, and lazy completion of past bookings.
type BookingService struct {
	bookings BookingStore
	venues   VenueStore
	users    UserStore
	refunder Refunder
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingService(bookings BookingStore, venues VenueStore, users UserStore, refunder Refunder,
	events EventPublisher, m *metrics.Metrics, log *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		venues:   venues,
		users:    users,
		refunder: refunder,
		events:   events,
		metrics:  m,
		log:      log.Named("booking"),
		now:      time.Now,
	}
}

func (s *BookingService) today() time.Time { return model.DateOf(s.now().UTC()) }

// Create books venueID for userID over [start, end]. A zero start means
// today; a zero end means a single day.
func (s *BookingService) Create(ctx context.Context, userID, venueID uint64, start, end time.Time) (*model.Booking, error) {
	rng := model.NormalizeRange(start, end, s.today())

	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if !venue.Bookable() {
		return nil, model.ErrVenueUnavailable
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	b := &model.Booking{UserID: userID, VenueID: venueID, StartDate: rng.Start, EndDate: rng.End}
	if err := s.bookings.CreateIfFree(ctx, b); err != nil {
		if errors.Is(err, model.ErrBookingConflict) {
			s.metrics.IncBookingConflict()
			s.log.Info("booking rejected, dates taken",
				zap.Uint64("venue_id", venueID),
				zap.Time("start", rng.Start),
				zap.Time("end", rng.End))
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if b.VenueName == "" {
		b.VenueName = venue.Name
	}

	s.metrics.IncBookingCreated()
	s.log.Info("booking created", zap.Uint64("booking_id", b.ID), zap.Uint64("venue_id", venueID), zap.Uint64("user_id", userID))
	publish(ctx, s.events, s.log, queue.NewBookingEvent(queue.BookingCreated, b, s.now()))
	return b, nil
}

// Get returns a booking visible to actor, completing it first when its end
// date has passed.
func (s *BookingService) Get(ctx context.Context, id uint64, actor model.Actor) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, b.UserID) {
		return nil, model.ErrNotOwner
	}
	if b.Expired(s.today()) {
		err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, model.BookingCompleted)
		switch {
		case err == nil:
			b.Status = model.BookingCompleted
			s.completed(ctx, b)
		case errors.Is(err, model.ErrInvalidTransition):
			// someone else moved it first; reload to report the truth
			return s.bookings.GetByID(ctx, id)
		default:
			return nil, err
		}
	}
	return b, nil
}

// List completes expired bookings and returns one page of bookings visible
// to q.Actor.
func (s *BookingService) List(ctx context.Context, q model.PageQuery) (model.Page[model.Booking], error) {
	q = q.Normalize()
	if q.Status != "" {
		if _, err := model.ParseBookingStatus(q.Status); err != nil {
			return model.Page[model.Booking]{}, err
		}
	}
	if err := s.completeExpired(ctx); err != nil {
		return model.Page[model.Booking]{}, err
	}
	items, total, err := s.bookings.List(ctx, q)
	if err != nil {
		return model.Page[model.Booking]{}, fmt.Errorf("list bookings: %w", err)
	}
	return model.NewPage(items, q, total), nil
}

// All returns every booking for reporting, after lazy completion.
func (s *BookingService) All(ctx context.Context) ([]model.Booking, error) {
	if err := s.completeExpired(ctx); err != nil {
		return nil, err
	}
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) completeExpired(ctx context.Context) error {
	done, err := s.bookings.CompleteExpired(ctx, s.today())
	if err != nil {
		return fmt.Errorf("complete expired bookings: %w", err)
	}
	if len(done) > 0 {
		s.log.Info("completed past bookings", zap.Int("count", len(done)))
	}
	for i := range done {
		s.completed(ctx, &done[i])
	}
	return nil
}

// completed records a booking that was completed because its dates passed.
func (s *BookingService) completed(ctx context.Context, b *model.Booking) {
	s.metrics.IncBookingStatus(string(model.BookingCompleted))
	publish(ctx, s.events, s.log, queue.NewBookingEvent(queue.BookingCompleted, b, s.now()))
}

// UpdateStatus applies a lifecycle transition. Moving to CANCELLED also
// refunds the booking's payment; a refund failure is logged and does not
// undo the cancellation.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint64, next model.BookingStatus) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, next)
}

func (s *BookingService) transition(ctx context.Context, b *model.Booking, next model.BookingStatus) (*model.Booking, error) {
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, b.Status, next)
	}
	if b.Status != next {
		if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, next); err != nil {
			return nil, fmt.Errorf("update booking status: %w", err)
		}
		s.log.Info("booking status changed",
			zap.Uint64("booking_id", b.ID),
			zap.String("from", string(b.Status)),
			zap.String("to", string(next)))
		b.Status = next
		s.metrics.IncBookingStatus(string(next))
		if t, ok := statusEvents[next]; ok {
			publish(ctx, s.events, s.log, queue.NewBookingEvent(t, b, s.now()))
		}
	}

	if next == model.BookingCancelled && s.refunder != nil {
		if err := s.refunder.Refund(ctx, b.ID); err != nil {
			s.log.Error("refund after cancellation failed", zap.Uint64("booking_id", b.ID), zap.Error(err))
		}
	}
	return b, nil
}

var statusEvents = map[model.BookingStatus]queue.EventType{
	model.BookingConfirmed: queue.BookingConfirmed,
	model.BookingCancelled: queue.BookingCancelled,
	model.BookingCompleted: queue.BookingCompleted,
}

// Cancel cancels a booking. Customers may only cancel their own.
func (s *BookingService) Cancel(ctx context.Context, id uint64, actor model.Actor) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, b.UserID) {
		return nil, model.ErrNotOwner
	}
	return s.transition(ctx, b, model.BookingCancelled)
}

// Complete marks a booking COMPLETED.
func (s *BookingService) Complete(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.UpdateStatus(ctx, id, model.BookingCompleted)
}
