package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/stpnv0/EventRegistration/internal/repository/query"
)

const eventColumns = `id, title, description, location, event_date, capacity, status, created_at`

type eventRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Location    string `db:"location"`
	EventDate   int64  `db:"event_date"`
	Capacity    int    `db:"capacity"`
	Status      string `db:"status"`
	CreatedAt   int64  `db:"created_at"`
}

func (r eventRow) toDomain() *domain.Event {
	return &domain.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Date:        fromMillis(r.EventDate),
		Capacity:    r.Capacity,
		Status:      domain.EventStatus(r.Status),
		CreatedAt:   fromMillis(r.CreatedAt),
	}
}

type EventStore struct {
	db *sqlx.DB
}

func (s *EventStore) Create(ctx context.Context, e *domain.Event) error {
	q := `INSERT INTO events (` + eventColumns + `, title_search) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		e.ID, e.Title, e.Description, e.Location,
		toMillis(e.Date), e.Capacity, string(e.Status), toMillis(e.CreatedAt),
		strings.ToLower(e.Title),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var row eventRow
	err := s.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return row.toDomain(), nil
}

func (s *EventStore) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	lq := query.BuildEventList(query.SQLite, filter)

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events `+lq.Where, lq.Args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	var rows []eventRow
	q := `SELECT ` + eventColumns + ` FROM events ` + lq.Where + ` ` + lq.OrderBy + ` ` + lq.Limit
	if err := s.db.SelectContext(ctx, &rows, q, append(lq.Args, lq.LimitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	res := make([]*domain.Event, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.toDomain())
	}

	return res, total, nil
}

func (s *EventStore) Cancel(ctx context.Context, id string) (*domain.Event, error) {
	var row eventRow
	q := `UPDATE events SET status = ? WHERE id = ? RETURNING ` + eventColumns
	err := s.db.GetContext(ctx, &row, q, string(domain.EventStatusCancelled), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	return row.toDomain(), nil
}
