package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/stpnv0/EventRegistration/internal/service/ports"
	"github.com/wb-go/wbf/logger"
)

type EventService struct {
	repo             ports.EventRepo
	registrationRepo ports.RegistrationRepo
	notifier         ports.EventNotifier
	logger           logger.Logger
	now              func() time.Time
}

func NewEventService(
	repo ports.EventRepo,
	registrationRepo ports.RegistrationRepo,
	notifier ports.EventNotifier,
	logger logger.Logger,
) *EventService {
	return &EventService{
		repo:             repo,
		registrationRepo: registrationRepo,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	now := s.now().UTC()
	if err := input.Validate(now); err != nil {
		return nil, err
	}

	event := &domain.Event{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Date:        input.Date.UTC(),
		Capacity:    input.Capacity,
		Status:      domain.EventStatusScheduled,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created",
		logger.String("event_id", event.ID),
		logger.Int("capacity", event.Capacity),
	)

	return event, nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	filter = filter.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if items == nil {
		items = []*domain.Event{}
	}

	return &domain.EventPage{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Items: items,
	}, nil
}

// Cancel is idempotent: an already cancelled event is returned as is.
func (s *EventService) Cancel(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsCancelled() {
		return event, nil
	}

	event, err = s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel event: %w", err)
	}

	s.logger.Info("event cancelled", logger.String("event_id", id))

	count, err := s.registrationRepo.CountByEvent(ctx, id)
	if err != nil {
		s.logger.Error("failed to count registrations for cancel notification",
			logger.String("event_id", id),
			logger.String("error", err.Error()),
		)
		return event, nil
	}

	go s.notifier.NotifyEventCancelled(context.WithoutCancel(ctx), event, count)

	return event, nil
}

// Stats issues independent reads; the count may be slightly stale relative
// to the event record.
func (s *EventService) Stats(ctx context.Context, id string) (*domain.EventStats, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.registrationRepo.CountByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	registrants, err := s.registrationRepo.ListByEvent(ctx, id, domain.MaxStatsRegistrants)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	stats := &domain.EventStats{
		Event:              *event,
		RegistrationsCount: count,
		RemainingSeats:     event.RemainingSeats(count),
		Registrants:        make([]domain.Registration, len(registrants)),
	}
	for i, r := range registrants {
		stats.Registrants[i] = *r
	}

	return stats, nil
}
