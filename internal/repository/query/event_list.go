// Package query builds the SQL fragments for event listing so the PostgreSQL
// and SQLite stores apply identical filter, sort and paging semantics.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/stpnv0/EventRegistration/internal/domain"
)

type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// TitleMatch renders a LIKE against the title; the bound pattern is
	// already lowercased.
	TitleMatch func(param string) string
	// TimeArg converts a bound instant into the column's storage form.
	TimeArg func(t time.Time) any
}

var Postgres = Dialect{
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	TitleMatch:  func(p string) string { return `title ILIKE ` + p + ` ESCAPE '\'` },
	TimeArg:     func(t time.Time) any { return t.UTC() },
}

// SQLite folds only ASCII case, so the store keeps a Go-lowercased copy of
// the title in title_search.
var SQLite = Dialect{
	Placeholder: func(int) string { return "?" },
	TitleMatch:  func(p string) string { return `title_search LIKE ` + p + ` ESCAPE '\'` },
	TimeArg:     func(t time.Time) any { return t.UTC().UnixMilli() },
}

var sortColumns = map[domain.SortField]string{
	domain.SortByDate:      "event_date",
	domain.SortByTitle:     "title",
	domain.SortByCapacity:  "capacity",
	domain.SortByStatus:    "status",
	domain.SortByCreatedAt: "created_at",
}

type EventList struct {
	Where     string
	Args      []any
	OrderBy   string
	Limit     string
	LimitArgs []any
}

// BuildEventList expects a normalized filter.
func BuildEventList(d Dialect, f domain.EventFilter) EventList {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, d.TitleMatch(next("%"+EscapeLike(strings.ToLower(q))+"%")))
	}
	if f.From != nil {
		conds = append(conds, "event_date >= "+next(d.TimeArg(*f.From)))
	}
	if f.To != nil {
		conds = append(conds, "event_date <= "+next(d.TimeArg(*f.To)))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+next(string(f.Status)))
	}

	res := EventList{Args: args}
	if len(conds) > 0 {
		res.Where = "WHERE " + strings.Join(conds, " AND ")
	}

	column, ok := sortColumns[f.SortField]
	if !ok {
		column = sortColumns[domain.SortByDate]
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	res.OrderBy = "ORDER BY " + column + " " + dir + ", id " + dir

	n := len(args)
	res.Limit = "LIMIT " + d.Placeholder(n+1) + " OFFSET " + d.Placeholder(n+2)
	res.LimitArgs = []any{f.Limit, f.Offset()}

	return res
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes user input match literally inside a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
