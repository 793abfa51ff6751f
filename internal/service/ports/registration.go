package ports

import (
	"context"

	"github.com/stpnv0/EventRegistration/internal/domain"
)

// RegistrationRepo.Create must re-check event status and capacity atomically
// with the insert and report ErrEventCancelled, ErrEventFull or
// ErrAlreadyRegistered accordingly.
type RegistrationRepo interface {
	Create(ctx context.Context, r *domain.Registration) error
	CountByEvent(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string, limit int) ([]*domain.Registration, error)
}
