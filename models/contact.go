package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ContactMessage is a submission from the contact form.
// CreatedAt is assigned by the document store, never by this service.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Trim strips surrounding whitespace so blank fields count as empty.
func (m ContactMessage) Trim() ContactMessage {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	return m
}

func (m ContactMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&m.Email, validation.Required, is.EmailFormat),
		validation.Field(&m.Message, validation.Required, validation.Length(1, 5000)),
	)
}
