package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

const pqUniqueViolation = "23505"

type RegistrationRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewRegistrationRepo(db *dbpg.DB) *RegistrationRepository {
	return &RegistrationRepository{
		db:       db,
		strategy: defaultStrategy(),
	}
}

// Create locks the event row so that concurrent registrations for the same
// event are serialized and capacity can never be exceeded.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		status   domain.EventStatus
		capacity int
		count    int
	)
	lockQuery := `SELECT status, capacity FROM events WHERE id = $1 FOR UPDATE`
	if err = tx.QueryRowContext(ctx, lockQuery, reg.EventID).Scan(&status, &capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	if status == domain.EventStatusCancelled {
		return domain.ErrEventCancelled
	}

	countQuery := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	if err = tx.QueryRowContext(ctx, countQuery, reg.EventID).Scan(&count); err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}

	if count >= capacity {
		return domain.ErrEventFull
	}

	insertQuery := `INSERT INTO registrations (id, event_id, name, email, registered_at)
					VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.ExecContext(ctx, insertQuery, reg.ID, reg.EventID, reg.Name, reg.Email, reg.RegisteredAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == pqUniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	q := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, q, eventID)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}

	var count int
	if err = row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]*domain.Registration, error) {
	q := `SELECT id, event_id, name, email, registered_at
		  FROM registrations
		  WHERE event_id = $1
		  ORDER BY registered_at, id
		  LIMIT $2`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, q, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var res []*domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err = rows.Scan(&reg.ID, &reg.EventID, &reg.Name, &reg.Email, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		reg.RegisteredAt = reg.RegisteredAt.UTC()
		res = append(res, &reg)
	}

	return res, rows.Err()
}
