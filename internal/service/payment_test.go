package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
)

type paymentFixture struct {
	payments *mockPaymentStore
	bookings *mockBookingStore
	venues   *mockVenueStore
	events   *recordingPublisher
	svc      *PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		payments: new(mockPaymentStore),
		bookings: new(mockBookingStore),
		venues:   new(mockVenueStore),
		events:   &recordingPublisher{},
	}
	f.svc = NewPaymentService(f.payments, f.bookings, f.venues, f.events, nil, zap.NewNop())
	f.svc.now = fixedClock("2025-06-10")
	t.Cleanup(func() {
		f.payments.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
		f.venues.AssertExpectations(t)
	})
	return f
}

var customer = model.Actor{UserID: 3, Role: model.RoleCustomer}

func threeDayBooking(status model.BookingStatus) *model.Booking {
	return &model.Booking{ID: 5, UserID: 3, VenueID: 7, StartDate: date("2025-06-12"), EndDate: date("2025-06-14"), Status: status}
}

func TestPaymentService_Quote(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingPending), nil)
	f.venues.On("GetByID", ctx, uint64(7)).Return(hall, nil)

	q, err := f.svc.Quote(ctx, 5, customer)

	require.NoError(t, err)
	assert.Equal(t, 3, q.Days)
	assert.Equal(t, int64(300000), q.AmountCents)
	assert.InDelta(t, 3000.0, q.Amount, 1e-9)
}

func TestPaymentService_Process(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	paidAt := f.svc.now().UTC()
	f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingPending), nil)
	f.payments.On("GetByBookingID", ctx, uint64(5)).Return(nil, model.ErrPaymentNotFound)
	f.venues.On("GetByID", ctx, uint64(7)).Return(hall, nil)
	f.payments.On("RecordSuccess", ctx, uint64(5), int64(300000), paidAt).
		Return(&model.Payment{ID: 11, BookingID: 5, AmountCents: 300000, Status: model.PaymentSuccess, PaidAt: &paidAt}, nil)

	p, err := f.svc.Process(ctx, 5, customer)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, p.Status)
	assert.InDelta(t, 3000.0, p.Amount(), 1e-9)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, queue.BookingConfirmed, f.events.events[0].Type)
	assert.Equal(t, int64(300000), f.events.events[0].AmountCents)
}

func TestPaymentService_Process_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("already paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingConfirmed), nil)
		f.payments.On("GetByBookingID", ctx, uint64(5)).Return(&model.Payment{ID: 11, Status: model.PaymentSuccess}, nil)
		_, err := f.svc.Process(ctx, 5, customer)
		assert.ErrorIs(t, err, model.ErrAlreadyPaid)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingCancelled), nil)
		f.payments.On("GetByBookingID", ctx, uint64(5)).Return(&model.Payment{ID: 11, Status: model.PaymentRefunded}, nil)
		_, err := f.svc.Process(ctx, 5, customer)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingPending), nil)
		_, err := f.svc.Process(ctx, 5, model.Actor{UserID: 4, Role: model.RoleCustomer})
		assert.ErrorIs(t, err, model.ErrNotOwner)
	})

	t.Run("booking moved concurrently", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingPending), nil)
		f.payments.On("GetByBookingID", ctx, uint64(5)).Return(nil, model.ErrPaymentNotFound)
		f.venues.On("GetByID", ctx, uint64(7)).Return(hall, nil)
		f.payments.On("RecordSuccess", ctx, uint64(5), int64(300000), mock.AnythingOfType("time.Time")).
			Return(nil, model.ErrInvalidTransition)
		_, err := f.svc.Process(ctx, 5, customer)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
		assert.Empty(t, f.events.events)
	})
}

func TestPaymentService_Refund(t *testing.T) {
	ctx := context.Background()

	t.Run("no payment is a no-op", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.payments.On("GetByBookingID", ctx, uint64(5)).Return(nil, model.ErrPaymentNotFound)
		assert.NoError(t, f.svc.Refund(ctx, 5))
		f.payments.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.events)
	})

	t.Run("pending payment is left alone", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.payments.On("GetByBookingID", ctx, uint64(5)).Return(&model.Payment{ID: 11, Status: model.PaymentPending}, nil)
		assert.NoError(t, f.svc.Refund(ctx, 5))
		f.payments.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
	})

	t.Run("success becomes refunded", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.payments.On("GetByBookingID", ctx, uint64(5)).
			Return(&model.Payment{ID: 11, BookingID: 5, AmountCents: 300000, Status: model.PaymentSuccess}, nil)
		f.payments.On("MarkRefunded", ctx, uint64(11)).Return(true, nil)
		f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingCancelled), nil)

		require.NoError(t, f.svc.Refund(ctx, 5))
		require.Len(t, f.events.events, 1)
		assert.Equal(t, queue.PaymentRefunded, f.events.events[0].Type)
		assert.Equal(t, int64(300000), f.events.events[0].AmountCents)
	})

	t.Run("lost race does not publish", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.payments.On("GetByBookingID", ctx, uint64(5)).Return(&model.Payment{ID: 11, Status: model.PaymentSuccess}, nil)
		f.payments.On("MarkRefunded", ctx, uint64(11)).Return(false, nil)
		require.NoError(t, f.svc.Refund(ctx, 5))
		assert.Empty(t, f.events.events)
	})
}

func TestPaymentService_Get_ChecksOwnership(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	f.payments.On("GetByID", ctx, uint64(11)).Return(&model.Payment{ID: 11, BookingID: 5}, nil)
	f.bookings.On("GetByID", ctx, uint64(5)).Return(threeDayBooking(model.BookingConfirmed), nil)

	_, err := f.svc.Get(ctx, 11, model.Actor{UserID: 4, Role: model.RoleCustomer})
	assert.ErrorIs(t, err, model.ErrNotOwner)

	p, err := f.svc.Get(ctx, 11, model.Actor{UserID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), p.ID)
}

func TestPaymentService_List(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture(t)
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f.payments.On("List", ctx, mock.MatchedBy(func(q model.PageQuery) bool {
		return q.Status == "SUCCESS" && q.Size == model.DefaultPageSize
	})).Return([]model.Payment{{ID: 11, Status: model.PaymentSuccess, PaidAt: &now}}, int64(1), nil)

	page, err := f.svc.List(ctx, model.PageQuery{Status: "success"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.svc.List(ctx, model.PageQuery{Status: "bogus"})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}
