package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stpnv0/EventRegistration/internal/domain"
	"github.com/stpnv0/EventRegistration/internal/service/ports"
	"github.com/wb-go/wbf/logger"
)

type RegistrationService struct {
	registrationRepo ports.RegistrationRepo
	eventRepo        ports.EventRepo
	notifier         ports.EventNotifier
	logger           logger.Logger
}

func NewRegistrationService(
	registrationRepo ports.RegistrationRepo,
	eventRepo ports.EventRepo,
	notifier ports.EventNotifier,
	logger logger.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

func (s *RegistrationService) Register(ctx context.Context, input domain.RegisterInput) (*domain.Registration, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if event.IsCancelled() {
		return nil, domain.ErrEventCancelled
	}

	count, err := s.registrationRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= event.Capacity {
		return nil, domain.ErrEventFull
	}

	// The repository repeats the status and capacity checks atomically with
	// the insert, so concurrent requests for the last seat cannot oversell it.
	reg := &domain.Registration{
		ID:           uuid.New().String(),
		EventID:      event.ID,
		Name:         input.Name,
		Email:        input.Email,
		RegisteredAt: time.Now().UTC(),
	}
	if err = s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.logger.Info("registration created",
		logger.String("registration_id", reg.ID),
		logger.String("event_id", event.ID),
	)

	if count+1 >= event.Capacity {
		go s.notifier.NotifyEventFull(context.WithoutCancel(ctx), event)
	}

	return reg, nil
}
