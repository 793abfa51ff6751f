package domain

import (
	"math"
	"strings"
	"time"
)

// MaxCapacity matches the INTEGER capacity column.
const MaxCapacity = math.MaxInt32

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	return s == EventStatusScheduled || s == EventStatusCancelled
}

type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Date        time.Time
	Capacity    int
	Status      EventStatus
	CreatedAt   time.Time
}

func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

// RemainingSeats never goes below zero, even if storage holds more
// registrations than the capacity allows.
func (e *Event) RemainingSeats(registered int) int {
	return max(e.Capacity-registered, 0)
}

type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	Capacity    int
}

// Validate checks the business rules for a new event relative to now.
func (in CreateEventInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError(MsgRequiredFields)
	}
	if in.Capacity < 1 {
		return NewValidationError(MsgCapacityTooLow)
	}
	if in.Capacity > MaxCapacity {
		return NewValidationError(MsgCapacityTooHigh)
	}
	if !in.Date.After(now) {
		return NewValidationError(MsgDateNotFuture)
	}
	return nil
}

type EventStats struct {
	Event              Event
	RegistrationsCount int
	RemainingSeats     int
	Registrants        []Registration
}

type EventPage struct {
	Total int
	Page  int
	Limit int
	Items []*Event
}
