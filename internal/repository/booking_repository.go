package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// BookingRepo stores bookings. Reads join venues and users so that list
// views can show and search by venue name and username.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingSelect = `SELECT b.id, b.user_id, b.venue_id, b.start_date, b.end_date, b.status,
		v.name, u.username, b.created_at, b.updated_at
	FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN users u  ON u.id = b.user_id`

var bookingSortable = map[string]string{
	"id":        "b.id",
	"startDate": "b.start_date",
	"endDate":   "b.end_date",
	"status":    "b.status",
	"venue":     "v.name",
	"user":      "u.username",
	"created":   "b.created_at",
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	if err := s.Scan(&b.ID, &b.UserID, &b.VenueID, &b.StartDate, &b.EndDate, &b.Status,
		&b.VenueName, &b.Username, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateIfFree inserts b as PENDING unless another non-cancelled booking on
// the same venue overlaps its date range. The venue row is locked for the
// duration of the transaction so concurrent requests for one venue are
// checked one after another.
func (r *BookingRepo) CreateIfFree(ctx context.Context, b *model.Booking) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var venueID uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM venues WHERE id = ? FOR UPDATE`, b.VenueID).Scan(&venueID); err != nil {
			return notFound(err, model.ErrVenueNotFound)
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT start_date, end_date FROM bookings WHERE venue_id = ? AND status <> ? AND end_date >= ?`,
			b.VenueID, model.BookingCancelled, b.StartDate)
		if err != nil {
			return err
		}
		want := b.Range()
		for rows.Next() {
			var existing model.DateRange
			if err := rows.Scan(&existing.Start, &existing.End); err != nil {
				rows.Close()
				return err
			}
			if existing.Overlaps(want) {
				rows.Close()
				return model.ErrBookingConflict
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		b.Status = model.BookingPending
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (user_id, venue_id, start_date, end_date, status) VALUES (?, ?, ?, ?, ?)`,
			b.UserID, b.VenueID, b.StartDate, b.EndDate, b.Status)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		got, err := scanBooking(tx.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
		if err != nil {
			return err
		}
		*b = *got
		return nil
	})
	return err
}

// GetByID returns model.ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if err != nil {
		return nil, notFound(err, model.ErrBookingNotFound)
	}
	return b, nil
}

// UpdateStatus moves a booking from one status to another. The write only
// applies while the row still holds from; otherwise the caller lost a race
// and gets model.ErrInvalidTransition.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrInvalidTransition
	}
	return nil
}

// CompleteExpired marks every open booking that ended before today as
// COMPLETED and returns those bookings with their new status. The rows are
// locked while they are read so the returned set matches what was updated.
func (r *BookingRepo) CompleteExpired(ctx context.Context, today time.Time) ([]model.Booking, error) {
	var done []model.Booking
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		cutoff := model.DateOf(today)
		rows, err := tx.QueryContext(ctx,
			bookingSelect+` WHERE b.end_date < ? AND b.status IN (?, ?) ORDER BY b.id FOR UPDATE OF b`,
			cutoff, model.BookingPending, model.BookingConfirmed)
		if err != nil {
			return err
		}
		for rows.Next() {
			b, err := scanBooking(rows)
			if err != nil {
				rows.Close()
				return err
			}
			done = append(done, *b)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
		if len(done) == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE bookings SET status = ? WHERE end_date < ? AND status IN (?, ?)`,
			model.BookingCompleted, cutoff, model.BookingPending, model.BookingConfirmed); err != nil {
			return err
		}
		for i := range done {
			done[i].Status = model.BookingCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

func bookingFilter(q model.PageQuery) *listFilter {
	f := &listFilter{}
	if !q.Actor.SeesAll() {
		f.add("b.user_id = ?", q.Actor.UserID)
	}
	if q.Status != "" {
		f.add("b.status = ?", q.Status)
	}
	f.search(q.Search, "v.name", "u.username", "b.status")
	return f
}

// List returns one page of bookings visible to q.Actor.
func (r *BookingRepo) List(ctx context.Context, q model.PageQuery) ([]model.Booking, int64, error) {
	f := bookingFilter(q)

	var total int64
	countSQL := `SELECT COUNT(*) FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN users u  ON u.id = b.user_id` + f.clause()
	if err := r.db.QueryRowContext(ctx, countSQL, f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := bookingSelect + f.clause() + orderBy(q, bookingSortable, "b.start_date", "b.id") + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, pageArgs(f, q)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0, q.Size)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

// ListAll returns every booking ordered by start date, for reporting.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, bookingSelect+` ORDER BY b.start_date ASC, b.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Count returns the number of bookings.
func (r *BookingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}
