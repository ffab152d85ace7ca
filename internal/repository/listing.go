package repository

import (
	"strings"

	"github.com/iliyamo/venue-booking/internal/model"
)

// listFilter accumulates WHERE conditions and their arguments for the paged
// list queries.
type listFilter struct {
	where []string
	args  []any
}

func (f *listFilter) add(cond string, args ...any) {
	f.where = append(f.where, cond)
	f.args = append(f.args, args...)
}

// search adds an OR over the given columns for a free-text term.
func (f *listFilter) search(term string, cols ...string) {
	if term == "" {
		return
	}
	parts := make([]string, len(cols))
	pattern := likeArg(term)
	for i, c := range cols {
		parts[i] = "LOWER(" + c + ") LIKE ?"
		f.args = append(f.args, pattern)
	}
	f.where = append(f.where, "("+strings.Join(parts, " OR ")+")")
}

func (f *listFilter) clause() string {
	if len(f.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.where, " AND ")
}

// orderBy resolves the requested sort key against a whitelist of columns
// and always appends idCol so paging is stable.
func orderBy(q model.PageQuery, sortable map[string]string, def, idCol string) string {
	col, ok := sortable[q.SortBy]
	if !ok {
		col = def
	}
	dir := "DESC"
	if q.SortDir == "asc" {
		dir = "ASC"
	}
	if col == idCol {
		return " ORDER BY " + col + " " + dir
	}
	return " ORDER BY " + col + " " + dir + ", " + idCol + " " + dir
}

func pageArgs(f *listFilter, q model.PageQuery) []any {
	return append(append([]any{}, f.args...), q.Size, q.Offset())
}
