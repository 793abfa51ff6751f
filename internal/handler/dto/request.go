package dto

import (
	"strings"
	"time"

	"github.com/stpnv0/EventRegistration/internal/domain"
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Capacity    *int   `json:"capacity"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// dateLayouts lists the accepted event date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// Validate checks presence and date format. Business rules such as a future
// date or a positive capacity are enforced by the service.
func (r CreateEventRequest) Validate() (domain.CreateEventInput, error) {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Date) == "" || r.Capacity == nil {
		return domain.CreateEventInput{}, domain.NewValidationError(domain.MsgRequiredFields)
	}

	date, ok := ParseDate(r.Date)
	if !ok {
		return domain.CreateEventInput{}, domain.NewValidationError(domain.MsgInvalidDate)
	}

	return domain.CreateEventInput{
		Title:       r.Title,
		Description: strings.TrimSpace(r.Description),
		Location:    strings.TrimSpace(r.Location),
		Date:        date,
		Capacity:    *r.Capacity,
	}, nil
}

// ParseDate accepts RFC 3339 timestamps as well as bare dates and minutes;
// values without an offset are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
