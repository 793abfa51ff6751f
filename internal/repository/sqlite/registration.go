package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/stpnv0/EventRegistration/internal/domain"
)

type registrationRow struct {
	ID           string `db:"id"`
	EventID      string `db:"event_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	RegisteredAt int64  `db:"registered_at"`
}

type RegistrationStore struct {
	db *sqlx.DB
}

// Create inserts only while the event is scheduled and below capacity. The
// check and the insert are one statement, so concurrent callers cannot
// overbook.
func (s *RegistrationStore) Create(ctx context.Context, reg *domain.Registration) error {
	q := `INSERT INTO registrations (id, event_id, name, email, registered_at)
		  SELECT ?, ?, ?, ?, ?
		  WHERE EXISTS (
		      SELECT 1 FROM events e
		      WHERE e.id = ? AND e.status = ?
		        AND e.capacity > (SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id)
		  )`
	res, err := s.db.ExecContext(ctx, q,
		reg.ID, reg.EventID, reg.Name, reg.Email, toMillis(reg.RegisteredAt),
		reg.EventID, string(domain.EventStatusScheduled),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	return s.rejectReason(ctx, reg.EventID)
}

// rejectReason explains why the conditional insert did not add a row.
func (s *RegistrationStore) rejectReason(ctx context.Context, eventID string) error {
	event, err := (&EventStore{db: s.db}).GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.IsCancelled() {
		return domain.ErrEventCancelled
	}
	return domain.ErrEventFull
}

func (s *RegistrationStore) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (s *RegistrationStore) ListByEvent(ctx context.Context, eventID string, limit int) ([]*domain.Registration, error) {
	var rows []registrationRow
	q := `SELECT id, event_id, name, email, registered_at
		  FROM registrations
		  WHERE event_id = ?
		  ORDER BY registered_at, id
		  LIMIT ?`
	if err := s.db.SelectContext(ctx, &rows, q, eventID, limit); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	res := make([]*domain.Registration, 0, len(rows))
	for _, r := range rows {
		res = append(res, &domain.Registration{
			ID:           r.ID,
			EventID:      r.EventID,
			Name:         r.Name,
			Email:        r.Email,
			RegisteredAt: fromMillis(r.RegisteredAt),
		})
	}
	return res, nil
}
