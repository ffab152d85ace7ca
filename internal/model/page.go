package model

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage bounds Page so Offset cannot overflow.
	MaxPage = 1_000_000
)

// Actor is the authenticated caller on whose behalf a query runs.
type Actor struct {
	UserID uint64
	Role   Role
}

// SeesAll reports whether the actor may read records owned by others.
func (a Actor) SeesAll() bool { return a.Role.Staff() }

// PageQuery carries list parameters from the HTTP layer down to the
// repositories. Status is already validated by the caller; an empty Status
// means no filter.
type PageQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
	Status  string
	Search  string
	Actor   Actor
}

// Normalize clamps paging values and lower-cases the sort direction.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	if strings.EqualFold(q.SortDir, "asc") {
		q.SortDir = "asc"
	} else {
		q.SortDir = "desc"
	}
	q.Search = strings.TrimSpace(q.Search)
	if strings.EqualFold(strings.TrimSpace(q.Status), "ALL") {
		q.Status = ""
	}
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	return q
}

// Offset returns the row offset for the page.
func (q PageQuery) Offset() int { return q.Page * q.Size }

// Page is one slice of a sorted, filtered result set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPage assembles a page from the query that produced it.
func NewPage[T any](items []T, q PageQuery, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if q.Size > 0 {
		pages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return Page[T]{Items: items, Page: q.Page, Size: q.Size, Total: total, TotalPages: pages}
}
