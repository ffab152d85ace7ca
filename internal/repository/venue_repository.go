package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/venue-booking/internal/model"
)

// VenueRepo provides CRUD operations for the venues table.
type VenueRepo struct {
	db *sql.DB
}

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, name, location, capacity, price_per_day_cents, status, image_path, created_at, updated_at`

var venueSortable = map[string]string{
	"id":       "id",
	"name":     "name",
	"location": "location",
	"capacity": "capacity",
	"price":    "price_per_day_cents",
	"status":   "status",
	"created":  "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(s rowScanner) (*model.Venue, error) {
	var (
		v     model.Venue
		image sql.NullString
	)
	if err := s.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.PricePerDayCents,
		&v.Status, &image, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if image.Valid {
		p := image.String
		v.ImagePath = &p
	}
	return &v, nil
}

// Create inserts v and reloads it so that ID, defaults and timestamps are
// populated.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	if v.Status == "" {
		v.Status = model.VenueAvailable
	}
	const q = `INSERT INTO venues (name, location, capacity, price_per_day_cents, status, image_path) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Location, v.Capacity, v.PricePerDayCents, v.Status, nullString(v.ImagePath))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*v = *got
	return nil
}

// GetByID returns model.ErrVenueNotFound when no row matches.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	v, err := scanVenue(row)
	if err != nil {
		return nil, notFound(err, model.ErrVenueNotFound)
	}
	return v, nil
}

// Update overwrites every mutable column of v.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues SET name = ?, location = ?, capacity = ?, price_per_day_cents = ?, status = ?, image_path = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, v.Name, v.Location, v.Capacity, v.PricePerDayCents, v.Status, nullString(v.ImagePath), v.ID)
	return err
}

// SetStatus changes only the status column.
func (r *VenueRepo) SetStatus(ctx context.Context, id uint64, status model.VenueStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE venues SET status = ? WHERE id = ?`, status, id)
	return err
}

// List returns one page of venues filtered by a search over name, location
// and status.
func (r *VenueRepo) List(ctx context.Context, q model.PageQuery) ([]model.Venue, int64, error) {
	var f listFilter
	if q.Status != "" {
		f.add("status = ?", q.Status)
	}
	f.search(q.Search, "name", "location", "status")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`+f.clause(), f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + venueColumns + ` FROM venues` + f.clause() +
		orderBy(q, venueSortable, "id", "id") + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, pageArgs(&f, q)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Venue, 0, q.Size)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}

// ListAvailable returns all venues currently open for booking.
func (r *VenueRepo) ListAvailable(ctx context.Context) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE status = ? ORDER BY name ASC`, model.VenueAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// Count returns the number of venues.
func (r *VenueRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&n)
	return n, err
}

// Delete removes the venue together with its bookings and their payments.
// All three deletes share one transaction.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE p FROM payments p JOIN bookings b ON b.id = p.booking_id WHERE b.venue_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE venue_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return model.ErrVenueNotFound
		}
		return nil
	})
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
