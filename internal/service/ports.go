// Package service implements the booking domain on top of the store
// interfaces declared here. Concrete stores live in internal/repository.
package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
)

type VenueStore interface {
	Create(ctx context.Context, v *model.Venue) error
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	Update(ctx context.Context, v *model.Venue) error
	SetStatus(ctx context.Context, id uint64, status model.VenueStatus) error
	List(ctx context.Context, q model.PageQuery) ([]model.Venue, int64, error)
	ListAvailable(ctx context.Context) ([]model.Venue, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

type BookingStore interface {
	CreateIfFree(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
	CompleteExpired(ctx context.Context, today time.Time) ([]model.Booking, error)
	List(ctx context.Context, q model.PageQuery) ([]model.Booking, int64, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
}

type PaymentStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error)
	RecordSuccess(ctx context.Context, bookingID uint64, amountCents int64, paidAt time.Time) (*model.Payment, error)
	MarkRefunded(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context, q model.PageQuery) ([]model.Payment, int64, error)
	Stats(ctx context.Context) (model.PaymentStats, error)
}

type TicketStore interface {
	Create(ctx context.Context, t *model.SupportTicket) error
	GetByID(ctx context.Context, id uint64) (*model.SupportTicket, error)
	Resolve(ctx context.Context, id uint64, notes string, at time.Time) error
	List(ctx context.Context, q model.PageQuery) ([]model.SupportTicket, int64, error)
	CountOpen(ctx context.Context) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role, enabled bool) ([]model.User, error)
	SetEnabled(ctx context.Context, id uint64, enabled bool) error
	Delete(ctx context.Context, id uint64) error
	CountByRole(ctx context.Context, role model.Role, enabled bool) (int64, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Rotate(ctx context.Context, oldHash, newHash string, now, exp time.Time) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// ImageStore persists uploaded venue images and returns their public path.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(publicPath string) error
}

// EventPublisher delivers domain events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Refunder reverses a booking's payment when one exists.
type Refunder interface {
	Refund(ctx context.Context, bookingID uint64) error
}

const publishTimeout = 3 * time.Second

// publish sends ev without letting broker trouble reach the caller. The
// request context is detached so a client disconnect does not drop events.
func publish(ctx context.Context, pub EventPublisher, log *zap.Logger, ev queue.BookingEvent) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("publish event failed",
			zap.String("type", string(ev.Type)),
			zap.Uint64("booking_id", ev.BookingID),
			zap.Error(err))
	}
}

// canSee reports whether actor may read a record owned by ownerID.
func canSee(actor model.Actor, ownerID uint64) bool {
	return actor.SeesAll() || actor.UserID == ownerID
}
