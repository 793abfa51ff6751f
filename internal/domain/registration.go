package domain

import (
	"strings"
	"time"
)

// MaxStatsRegistrants bounds the registrant list returned with event stats.
const MaxStatsRegistrants = 100

type Registration struct {
	ID           string
	EventID      string
	Name         string
	Email        string
	RegisteredAt time.Time
}

type RegisterInput struct {
	EventID string
	Name    string
	Email   string
}

// Normalize trims the input and lowercases the email so that the
// (event, email) uniqueness holds regardless of letter case.
func (in RegisterInput) Normalize() RegisterInput {
	return RegisterInput{
		EventID: strings.TrimSpace(in.EventID),
		Name:    strings.TrimSpace(in.Name),
		Email:   NormalizeEmail(in.Email),
	}
}

func (in RegisterInput) Validate() error {
	if in.Name == "" || in.Email == "" {
		return NewValidationError(MsgNameEmailRequired)
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
