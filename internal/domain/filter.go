package domain

import "time"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit far from int overflow; pages beyond it
	// are empty anyway.
	MaxPage = 1_000_000
)

type SortField string

const (
	SortByDate      SortField = "date"
	SortByTitle     SortField = "title"
	SortByCapacity  SortField = "capacity"
	SortByStatus    SortField = "status"
	SortByCreatedAt SortField = "createdAt"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByDate, SortByTitle, SortByCapacity, SortByStatus, SortByCreatedAt:
		return true
	}
	return false
}

// EventFilter describes an event listing query. All set conditions are
// combined with AND.
type EventFilter struct {
	Query     string
	From      *time.Time
	To        *time.Time
	Status    EventStatus
	SortField SortField
	SortDesc  bool
	Page      int
	Limit     int
}

// Normalize coerces out-of-range values to defaults instead of rejecting them.
func (f EventFilter) Normalize() EventFilter {
	if !f.SortField.Valid() {
		f.SortField = SortByDate
	}
	if f.Status != "" && !f.Status.Valid() {
		f.Status = ""
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

func (f EventFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
