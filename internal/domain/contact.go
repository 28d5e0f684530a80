package domain

import (
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

// Contact is an insurance contact eligible for outbound messaging.
// BirthDate and EffectiveDate are optional; every other field must be
// non-empty for the contact to be eligible.
type Contact struct {
	ID            int64
	Email         string
	State         string
	ZipCode       string
	BirthDate     *time.Time
	EffectiveDate *time.Time
}

// Validate ensures the contact carries the minimum fields the engine
// requires to schedule anything for it.
func (c *Contact) Validate() error {
	if c.Email == "" {
		return &ErrValidation{Field: "email", Reason: "required", Contact: c.ID}
	}
	if !govalidator.IsEmail(c.Email) {
		return &ErrValidation{Field: "email", Reason: "invalid email format", Contact: c.ID}
	}
	if c.State == "" {
		return &ErrValidation{Field: "state", Reason: "required", Contact: c.ID}
	}
	if len(c.State) != 2 {
		return &ErrValidation{Field: "state", Reason: fmt.Sprintf("expected 2-letter code, got %q", c.State), Contact: c.ID}
	}
	if c.ZipCode == "" {
		return &ErrValidation{Field: "zip_code", Reason: "required", Contact: c.ID}
	}
	return nil
}
