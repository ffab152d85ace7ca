package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// PaymentRepo stores the one-to-one payment attached to each booking.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentSelect = `SELECT p.id, p.booking_id, p.amount_cents, p.status, p.paid_at,
		v.name, u.username, p.created_at, p.updated_at
	FROM payments p
	JOIN bookings b ON b.id = p.booking_id
	JOIN venues v   ON v.id = b.venue_id
	JOIN users u    ON u.id = b.user_id`

var paymentSortable = map[string]string{
	"id":      "p.id",
	"amount":  "p.amount_cents",
	"status":  "p.status",
	"paidAt":  "p.paid_at",
	"venue":   "v.name",
	"user":    "u.username",
	"created": "p.created_at",
}

func scanPayment(s rowScanner) (*model.Payment, error) {
	var (
		p      model.Payment
		paidAt sql.NullTime
	)
	if err := s.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Status, &paidAt,
		&p.VenueName, &p.Username, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}

// GetByID returns model.ErrPaymentNotFound when no row matches.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return nil, notFound(err, model.ErrPaymentNotFound)
	}
	return p, nil
}

// GetByBookingID returns model.ErrPaymentNotFound when the booking has no
// payment yet.
func (r *PaymentRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, paymentSelect+` WHERE p.booking_id = ?`, bookingID))
	if err != nil {
		return nil, notFound(err, model.ErrPaymentNotFound)
	}
	return p, nil
}

// RecordSuccess confirms a PENDING booking and stores its SUCCESS payment in
// one transaction. A booking that is no longer PENDING yields
// model.ErrInvalidTransition and nothing is written.
func (r *PaymentRepo) RecordSuccess(ctx context.Context, bookingID uint64, amountCents int64, paidAt time.Time) (*model.Payment, error) {
	var out *model.Payment
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
			model.BookingConfirmed, bookingID, model.BookingPending)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return model.ErrInvalidTransition
		}
		const upsert = `INSERT INTO payments (booking_id, amount_cents, status, paid_at) VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE amount_cents = VALUES(amount_cents), status = VALUES(status), paid_at = VALUES(paid_at)`
		if _, err := tx.ExecContext(ctx, upsert, bookingID, amountCents, model.PaymentSuccess, paidAt); err != nil {
			return err
		}
		out, err = scanPayment(tx.QueryRowContext(ctx, paymentSelect+` WHERE p.booking_id = ?`, bookingID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRefunded flips a SUCCESS payment to REFUNDED. It reports false when
// the payment was not in SUCCESS, so a refund is applied at most once.
func (r *PaymentRepo) MarkRefunded(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ? AND status = ?`,
		model.PaymentRefunded, id, model.PaymentSuccess)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns one page of payments visible to q.Actor.
func (r *PaymentRepo) List(ctx context.Context, q model.PageQuery) ([]model.Payment, int64, error) {
	f := &listFilter{}
	if !q.Actor.SeesAll() {
		f.add("b.user_id = ?", q.Actor.UserID)
	}
	if q.Status != "" {
		f.add("p.status = ?", q.Status)
	}
	f.search(q.Search, "v.name", "u.username", "p.status")

	var total int64
	countSQL := `SELECT COUNT(*) FROM payments p
	JOIN bookings b ON b.id = p.booking_id
	JOIN venues v   ON v.id = b.venue_id
	JOIN users u    ON u.id = b.user_id` + f.clause()
	if err := r.db.QueryRowContext(ctx, countSQL, f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := paymentSelect + f.clause() + orderBy(q, paymentSortable, "p.created_at", "p.id") + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, pageArgs(f, q)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Payment, 0, q.Size)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

// Stats sums SUCCESS payments as earnings and REFUNDED payments separately,
// and counts payments per status.
func (r *PaymentRepo) Stats(ctx context.Context) (model.PaymentStats, error) {
	st := model.PaymentStats{CountByStatus: map[model.PaymentStatus]int64{
		model.PaymentPending:  0,
		model.PaymentSuccess:  0,
		model.PaymentRefunded: 0,
	}}
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(amount_cents), 0) FROM payments GROUP BY status`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status model.PaymentStatus
			count  int64
			sum    int64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return st, err
		}
		st.CountByStatus[status] = count
		switch status {
		case model.PaymentSuccess:
			st.EarningsCents = sum
		case model.PaymentRefunded:
			st.RefundedCents = sum
		}
	}
	return st, rows.Err()
}
