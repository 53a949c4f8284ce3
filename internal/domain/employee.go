package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is the projection of an employee record used by the pipeline:
// identity resolution reads the name fields, delivery reads the contact
// fields. The employee-management subsystem owns the full record.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	// Alias is an operator-assigned string meant to exactly match the
	// CRM's free-text surveyor label for this employee
	Alias     string    `json:"alias,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns "First Last" with surrounding whitespace trimmed
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmailLocalPart returns the part of the email before the '@', or ""
// if the email has no '@'
func (e *Employee) EmailLocalPart() string {
	at := strings.Index(e.Email, "@")
	if at <= 0 {
		return ""
	}
	return e.Email[:at]
}
