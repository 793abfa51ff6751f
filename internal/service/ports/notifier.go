package ports

import (
	"context"

	"github.com/stpnv0/EventRegistration/internal/domain"
)

type EventNotifier interface {
	NotifyEventFull(ctx context.Context, event *domain.Event)
	NotifyEventCancelled(ctx context.Context, event *domain.Event, registrations int)
}
