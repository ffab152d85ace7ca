package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
)

type mockVenueStore struct{ mock.Mock }

func (m *mockVenueStore) Create(ctx context.Context, v *model.Venue) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVenueStore) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*model.Venue)
	return v, args.Error(1)
}

func (m *mockVenueStore) Update(ctx context.Context, v *model.Venue) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockVenueStore) SetStatus(ctx context.Context, id uint64, status model.VenueStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockVenueStore) List(ctx context.Context, q model.PageQuery) ([]model.Venue, int64, error) {
	args := m.Called(ctx, q)
	v, _ := args.Get(0).([]model.Venue)
	return v, args.Get(1).(int64), args.Error(2)
}

func (m *mockVenueStore) ListAvailable(ctx context.Context) ([]model.Venue, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.Venue)
	return v, args.Error(1)
}

func (m *mockVenueStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVenueStore) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) CreateIfFree(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockBookingStore) CompleteExpired(ctx context.Context, today time.Time) ([]model.Booking, error) {
	args := m.Called(ctx, today)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) List(ctx context.Context, q model.PageQuery) ([]model.Booking, int64, error) {
	args := m.Called(ctx, q)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingStore) ListAll(ctx context.Context) ([]model.Booking, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockPaymentStore struct{ mock.Mock }

func (m *mockPaymentStore) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentStore) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	args := m.Called(ctx, bookingID)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentStore) RecordSuccess(ctx context.Context, bookingID uint64, amountCents int64, paidAt time.Time) (*model.Payment, error) {
	args := m.Called(ctx, bookingID, amountCents, paidAt)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPaymentStore) MarkRefunded(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPaymentStore) List(ctx context.Context, q model.PageQuery) ([]model.Payment, int64, error) {
	args := m.Called(ctx, q)
	p, _ := args.Get(0).([]model.Payment)
	return p, args.Get(1).(int64), args.Error(2)
}

func (m *mockPaymentStore) Stats(ctx context.Context) (model.PaymentStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PaymentStats), args.Error(1)
}

type mockTicketStore struct{ mock.Mock }

func (m *mockTicketStore) Create(ctx context.Context, t *model.SupportTicket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTicketStore) GetByID(ctx context.Context, id uint64) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.SupportTicket)
	return t, args.Error(1)
}

func (m *mockTicketStore) Resolve(ctx context.Context, id uint64, notes string, at time.Time) error {
	return m.Called(ctx, id, notes, at).Error(0)
}

func (m *mockTicketStore) List(ctx context.Context, q model.PageQuery) ([]model.SupportTicket, int64, error) {
	args := m.Called(ctx, q)
	t, _ := args.Get(0).([]model.SupportTicket)
	return t, args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketStore) CountOpen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uint64) *model.User); ok {
		return fn(ctx, id), args.Error(1)
	}
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if fn, ok := args.Get(0).(func(context.Context, string) *model.User); ok {
		return fn(ctx, login), args.Error(1)
	}
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) ListByRole(ctx context.Context, role model.Role, enabled bool) ([]model.User, error) {
	args := m.Called(ctx, role, enabled)
	u, _ := args.Get(0).([]model.User)
	return u, args.Error(1)
}

func (m *mockUserStore) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	return m.Called(ctx, id, enabled).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) CountByRole(ctx context.Context, role model.Role, enabled bool) (int64, error) {
	args := m.Called(ctx, role, enabled)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *mockTokenStore) Rotate(ctx context.Context, oldHash, newHash string, now, exp time.Time) (uint64, error) {
	args := m.Called(ctx, oldHash, newHash, now, exp)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockImageStore struct{ mock.Mock }

func (m *mockImageStore) Save(originalName string, r io.Reader) (string, error) {
	args := m.Called(originalName, r)
	return args.String(0), args.Error(1)
}

func (m *mockImageStore) Remove(publicPath string) error {
	return m.Called(publicPath).Error(0)
}

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []queue.EventType {
	out := make([]queue.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type mockRefunder struct{ mock.Mock }

func (m *mockRefunder) Refund(ctx context.Context, bookingID uint64) error {
	return m.Called(ctx, bookingID).Error(0)
}

func date(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedClock(s string) func() time.Time {
	t := date(s).Add(10 * time.Hour)
	return func() time.Time { return t }
}
