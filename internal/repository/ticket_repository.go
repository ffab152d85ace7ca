package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// TicketRepo stores customer support tickets.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketSelect = `SELECT t.id, t.customer_id, u.username, t.issue_type, t.description, t.status,
		t.resolution_notes, t.created_at, t.resolved_at
	FROM support_tickets t
	JOIN users u ON u.id = t.customer_id`

var ticketSortable = map[string]string{
	"id":        "t.id",
	"issueType": "t.issue_type",
	"status":    "t.status",
	"created":   "t.created_at",
	"resolved":  "t.resolved_at",
	"user":      "u.username",
}

func scanTicket(s rowScanner) (*model.SupportTicket, error) {
	var (
		t        model.SupportTicket
		notes    sql.NullString
		resolved sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.CustomerID, &t.Username, &t.IssueType, &t.Description, &t.Status,
		&notes, &t.CreatedAt, &resolved); err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		t.ResolutionNotes = &n
	}
	if resolved.Valid {
		at := resolved.Time
		t.ResolvedAt = &at
	}
	return &t, nil
}

// Create inserts t and reloads it.
func (r *TicketRepo) Create(ctx context.Context, t *model.SupportTicket) error {
	const q = `INSERT INTO support_tickets (customer_id, issue_type, description, status, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.CustomerID, t.IssueType, t.Description, t.Status, t.CreatedAt)
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
	*t = *got
	return nil
}

// GetByID returns model.ErrTicketNotFound when no row matches.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.SupportTicket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, notFound(err, model.ErrTicketNotFound)
	}
	return t, nil
}

// Resolve stores the resolution notes and marks the ticket RESOLVED.
func (r *TicketRepo) Resolve(ctx context.Context, id uint64, notes string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET status = ?, resolution_notes = ?, resolved_at = ? WHERE id = ?`,
		model.TicketResolved, notes, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrTicketNotFound
	}
	return nil
}

// List returns one page of tickets visible to q.Actor.
func (r *TicketRepo) List(ctx context.Context, q model.PageQuery) ([]model.SupportTicket, int64, error) {
	f := &listFilter{}
	if !q.Actor.SeesAll() {
		f.add("t.customer_id = ?", q.Actor.UserID)
	}
	if q.Status != "" {
		f.add("t.status = ?", q.Status)
	}
	f.search(q.Search, "u.username", "t.issue_type", "t.status", "t.description")

	var total int64
	countSQL := `SELECT COUNT(*) FROM support_tickets t JOIN users u ON u.id = t.customer_id` + f.clause()
	if err := r.db.QueryRowContext(ctx, countSQL, f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := ticketSelect + f.clause() + orderBy(q, ticketSortable, "t.created_at", "t.id") + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, pageArgs(f, q)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.SupportTicket, 0, q.Size)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

// CountOpen returns the number of unresolved tickets.
func (r *TicketRepo) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM support_tickets WHERE status = ?`, model.TicketOpen).Scan(&n)
	return n, err
}
