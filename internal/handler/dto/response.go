package dto

import (
	"time"

	"github.com/stpnv0/EventRegistration/internal/domain"
)

type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type EventPageResponse struct {
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Items []EventResponse `json:"items"`
}

type RegistrationResponse struct {
	ID           string `json:"id"`
	EventID      string `json:"eventId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registeredAt"`
}

type RegistrantResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EventStatsResponse struct {
	EventID            string               `json:"eventId"`
	Title              string               `json:"title"`
	Date               string               `json:"date"`
	Capacity           int                  `json:"capacity"`
	Status             string               `json:"status"`
	RegistrationsCount int                  `json:"registrationsCount"`
	RemainingSeats     int                  `json:"remainingSeats"`
	Registrants        []RegistrantResponse `json:"registrants"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date.UTC().Format(time.RFC3339),
		Capacity:    e.Capacity,
		Location:    e.Location,
		Description: e.Description,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToEventPageResponse(p *domain.EventPage) EventPageResponse {
	items := make([]EventResponse, 0, len(p.Items))
	for _, e := range p.Items {
		items = append(items, ToEventResponse(e))
	}

	return EventPageResponse{
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
		Items: items,
	}
}

func ToRegistrationResponse(r *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		Name:         r.Name,
		Email:        r.Email,
		RegisteredAt: r.RegisteredAt.UTC().Format(time.RFC3339),
	}
}

func ToEventStatsResponse(s *domain.EventStats) EventStatsResponse {
	registrants := make([]RegistrantResponse, 0, len(s.Registrants))
	for _, r := range s.Registrants {
		registrants = append(registrants, RegistrantResponse{Name: r.Name, Email: r.Email})
	}

	return EventStatsResponse{
		EventID:            s.Event.ID,
		Title:              s.Event.Title,
		Date:               s.Event.Date.UTC().Format(time.RFC3339),
		Capacity:           s.Event.Capacity,
		Status:             string(s.Event.Status),
		RegistrationsCount: s.RegistrationsCount,
		RemainingSeats:     s.RemainingSeats,
		Registrants:        registrants,
	}
}
