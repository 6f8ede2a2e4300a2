package service

import (
	"context"
	"strings"

	"aperture/internal/mailer"
	"aperture/internal/models"
	"aperture/internal/validation"
)

type ContactService struct {
	mail mailer.Mailer
}

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

const (
	maxContactSubjectLen = 200
	maxContactMessageLen = 5000
)

func NewContactService(mail mailer.Mailer) *ContactService {
	return &ContactService{mail: mail}
}

// SendMessage validates a contact-form submission and forwards it to the
// site owner through the mail relay. Nothing is persisted.
func (s *ContactService) SendMessage(ctx context.Context, in ContactInput) error {
	name := strings.TrimSpace(in.Name)
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)

	if name == "" {
		return models.NewValidationError("Name is required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return models.NewValidationError(err.Error())
	}
	if subject == "" {
		subject = "Message from the contact form"
	}
	if len(subject) > maxContactSubjectLen {
		return models.NewValidationError("Subject too long (max 200 characters)")
	}
	if message == "" {
		return models.NewValidationError("Message is required")
	}
	if len(message) > maxContactMessageLen {
		return models.NewValidationError("Message too long (max 5000 characters)")
	}

	if err := s.mail.SendContactMessage(name, in.Email, subject, message); err != nil {
		return models.NewExternalServiceError("Mail relay", err)
	}
	return nil
}
