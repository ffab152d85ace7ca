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

// PaymentService charges and refunds bookings. Payments are simulated:
// processing always succeeds once the booking is eligible.
type PaymentService struct {
	payments PaymentStore
	bookings BookingStore
	venues   VenueStore
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(payments PaymentStore, bookings BookingStore, venues VenueStore,
	events EventPublisher, m *metrics.Metrics, log *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		venues:   venues,
		events:   events,
		metrics:  m,
		log:      log.Named("payment"),
		now:      time.Now,
	}
}

// Quote is the price a booking would be charged.
type Quote struct {
	BookingID        uint64  `json:"booking_id"`
	VenueName        string  `json:"venue_name"`
	Days             int     `json:"days"`
	PricePerDayCents int64   `json:"price_per_day_cents"`
	AmountCents      int64   `json:"amount_cents"`
	Amount           float64 `json:"amount"`
}

func (s *PaymentService) ownedBooking(ctx context.Context, bookingID uint64, actor model.Actor) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, b.UserID) {
		return nil, model.ErrNotOwner
	}
	return b, nil
}

func (s *PaymentService) price(ctx context.Context, b *model.Booking) (Quote, error) {
	venue, err := s.venues.GetByID(ctx, b.VenueID)
	if err != nil {
		return Quote{}, fmt.Errorf("load venue: %w", err)
	}
	amount := model.AmountFor(venue.PricePerDayCents, b.Range())
	return Quote{
		BookingID:        b.ID,
		VenueName:        venue.Name,
		Days:             b.Range().Days(),
		PricePerDayCents: venue.PricePerDayCents,
		AmountCents:      amount,
		Amount:           float64(amount) / 100.0,
	}, nil
}

// Quote prices a booking without charging it.
func (s *PaymentService) Quote(ctx context.Context, bookingID uint64, actor model.Actor) (Quote, error) {
	b, err := s.ownedBooking(ctx, bookingID, actor)
	if err != nil {
		return Quote{}, err
	}
	return s.price(ctx, b)
}

// Process charges a PENDING booking and confirms it.
func (s *PaymentService) Process(ctx context.Context, bookingID uint64, actor model.Actor) (*model.Payment, error) {
	b, err := s.ownedBooking(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	existing, err := s.payments.GetByBookingID(ctx, bookingID)
	switch {
	case err == nil && existing.Status == model.PaymentSuccess:
		return nil, model.ErrAlreadyPaid
	case err != nil && !errors.Is(err, model.ErrPaymentNotFound):
		return nil, fmt.Errorf("load payment: %w", err)
	}
	if b.Status != model.BookingPending {
		return nil, fmt.Errorf("%w: booking is %s", model.ErrInvalidTransition, b.Status)
	}

	quote, err := s.price(ctx, b)
	if err != nil {
		return nil, err
	}
	p, err := s.payments.RecordSuccess(ctx, b.ID, quote.AmountCents, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.metrics.IncPayment()
	s.metrics.IncBookingStatus(string(model.BookingConfirmed))
	s.log.Info("payment processed", zap.Uint64("booking_id", b.ID), zap.Int64("amount_cents", p.AmountCents))

	b.Status = model.BookingConfirmed
	ev := queue.NewBookingEvent(queue.BookingConfirmed, b, s.now())
	ev.AmountCents = p.AmountCents
	publish(ctx, s.events, s.log, ev)
	return p, nil
}

// Refund reverses a SUCCESS payment. It does nothing when the booking has
// no payment or the payment is not SUCCESS.
func (s *PaymentService) Refund(ctx context.Context, bookingID uint64) error {
	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if errors.Is(err, model.ErrPaymentNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if p.Status != model.PaymentSuccess {
		return nil
	}
	changed, err := s.payments.MarkRefunded(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	if !changed {
		return nil
	}

	s.metrics.IncRefund()
	s.log.Info("payment refunded", zap.Uint64("booking_id", bookingID), zap.Int64("amount_cents", p.AmountCents))

	ev := queue.BookingEvent{Type: queue.PaymentRefunded, BookingID: bookingID, OccurredAt: s.now().UTC()}
	if b, err := s.bookings.GetByID(ctx, bookingID); err == nil {
		ev = queue.NewBookingEvent(queue.PaymentRefunded, b, s.now())
	}
	ev.AmountCents = p.AmountCents
	publish(ctx, s.events, s.log, ev)
	return nil
}

// Get returns a payment visible to actor.
func (s *PaymentService) Get(ctx context.Context, id uint64, actor model.Actor) (*model.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.SeesAll() {
		if _, err := s.ownedBooking(ctx, p.BookingID, actor); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// List returns one page of payments visible to q.Actor.
func (s *PaymentService) List(ctx context.Context, q model.PageQuery) (model.Page[model.Payment], error) {
	q = q.Normalize()
	if q.Status != "" {
		if _, err := model.ParsePaymentStatus(q.Status); err != nil {
			return model.Page[model.Payment]{}, err
		}
	}
	items, total, err := s.payments.List(ctx, q)
	if err != nil {
		return model.Page[model.Payment]{}, fmt.Errorf("list payments: %w", err)
	}
	return model.NewPage(items, q, total), nil
}

// Stats aggregates earnings and refunds.
func (s *PaymentService) Stats(ctx context.Context) (model.PaymentStats, error) {
	return s.payments.Stats(ctx)
}
