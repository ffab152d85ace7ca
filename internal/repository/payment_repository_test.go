package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/model"
)

var paymentCols = []string{"id", "booking_id", "amount_cents", "status", "paid_at", "name", "username", "created_at", "updated_at"}

func TestPaymentRepo_RecordSuccess(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentRepo(db)
	paidAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ? WHERE id = ? AND status = ?")).
		WithArgs(model.BookingConfirmed, 4, model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments (booking_id, amount_cents, status, paid_at)")).
		WithArgs(4, int64(300000), model.PaymentSuccess, paidAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.booking_id = ?")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(1, 4, 300000, "SUCCESS", paidAt, "Grand Hall", "alice", paidAt, paidAt))
	mock.ExpectCommit()

	p, err := repo.RecordSuccess(context.Background(), 4, 300000, paidAt)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, p.Status)
	assert.Equal(t, 3000.0, p.Amount())
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, paidAt, *p.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_RecordSuccess_BookingNotPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WithArgs(model.BookingConfirmed, 4, model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.RecordSuccess(context.Background(), 4, 100, time.Now())
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_MarkRefunded_OnlyOnce(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentRepo(db)

	q := regexp.QuoteMeta("UPDATE payments SET status = ? WHERE id = ? AND status = ?")
	mock.ExpectExec(q).WithArgs(model.PaymentRefunded, 1, model.PaymentSuccess).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(model.PaymentRefunded, 1, model.PaymentSuccess).WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkRefunded(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkRefunded(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByBookingID_Missing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.booking_id = ?")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(paymentCols))

	_, err := repo.GetByBookingID(context.Background(), 8)
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)
}

func TestPaymentRepo_Stats(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payments GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("SUCCESS", 3, 450000).
			AddRow("REFUNDED", 1, 100000))

	st, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(450000), st.EarningsCents)
	assert.Equal(t, int64(100000), st.RefundedCents)
	assert.Equal(t, int64(3), st.CountByStatus[model.PaymentSuccess])
	assert.Equal(t, int64(0), st.CountByStatus[model.PaymentPending])
}
