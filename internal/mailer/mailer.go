// Package mailer sends transactional mail through the configured SMTP relay.
package mailer

import (
	"fmt"

	"aperture/internal/config"
	"aperture/internal/middleware"

	"gopkg.in/gomail.v2"
)

// Mailer is the contract the application has with the mail relay.
type Mailer interface {
	// SendContactMessage forwards a contact-form submission to the site owner.
	SendContactMessage(fromName, fromEmail, subject, body string) error

	// SendPasswordReset mails a reset link to the given address.
	SendPasswordReset(toEmail, resetURL string) error

	// SendWelcome mails a greeting to a freshly registered user.
	SendWelcome(toEmail, username string) error
}

// SMTPMailer implements Mailer over gomail.
type SMTPMailer struct {
	dialer       *gomail.Dialer
	from         string
	contactEmail string
}

// NewSMTPMailer builds a mailer from the SMTP section of the config.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer:       gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:         cfg.SMTPFrom,
		contactEmail: cfg.ContactEmail,
	}
}

func (m *SMTPMailer) send(msg *gomail.Message) error {
	if err := m.dialer.DialAndSend(msg); err != nil {
		middleware.MailSends.WithLabelValues("error").Inc()
		return fmt.Errorf("mail relay send failed: %w", err)
	}
	middleware.MailSends.WithLabelValues("success").Inc()
	return nil
}

// SendContactMessage forwards a visitor's message to the configured
// contact address. Reply-To is set to the visitor so the owner can
// answer directly.
func (m *SMTPMailer) SendContactMessage(fromName, fromEmail, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.contactEmail)
	msg.SetHeader("Reply-To", msg.FormatAddress(fromEmail, fromName))
	msg.SetHeader("Subject", fmt.Sprintf("[Contact] %s", subject))
	msg.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s", fromName, fromEmail, body))
	return m.send(msg)
}

// SendPasswordReset mails a single-use reset link.
func (m *SMTPMailer) SendPasswordReset(toEmail, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Follow this link to choose a new password:\n%s\n\n"+
			"The link expires in one hour. If you did not request this, you can ignore this message.",
		resetURL))
	return m.send(msg)
}

// SendWelcome greets a new user.
func (m *SMTPMailer) SendWelcome(toEmail, username string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome to Aperture")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Sign in and start sharing your photos.\n", username))
	return m.send(msg)
}
