package ports

import (
	"context"

	"github.com/stpnv0/EventRegistration/internal/domain"
)

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error)
	Cancel(ctx context.Context, id string) (*domain.Event, error)
}
