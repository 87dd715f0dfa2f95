package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contact-relay-backend/config"

	"gopkg.in/gomail.v2"
)

// SubjectPrefix precedes the submitter's subject in every notification.
const SubjectPrefix = "New Contact Form Submission: "

// ErrNotConfigured is returned when the relay credentials are incomplete.
var ErrNotConfigured = errors.New("email service is not configured")

// EmailService delivers contact notifications through an SMTP relay.
type EmailService struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	toEmail   string
	timeout   time.Duration
	dial      func(ctx context.Context, deadline time.Time) (gomail.SendCloser, error)
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// DefaultTimeout bounds a whole relay conversation when none is configured.
const DefaultTimeout = 30 * time.Second

// NewEmailService creates an email service for the configured relay. Port 465
// uses implicit TLS; other ports upgrade with STARTTLS.
func NewEmailService(cfg *config.Config) *EmailService {
	s := &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.EmailAddress,
		password:  cfg.EmailPassword,
		fromEmail: cfg.EmailAddress,
		toEmail:   cfg.OwnerEmail,
		timeout:   cfg.SMTPTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	s.dial = func(ctx context.Context, deadline time.Time) (gomail.SendCloser, error) {
		return dialRelay(ctx, s.host, s.port, s.username, s.password, deadline)
	}
	return s
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}

// Recipient is the owner address notifications are sent to.
func (s *EmailService) Recipient() string {
	return s.toEmail
}

// BuildMessage assembles the multipart/alternative notification for data.
func (s *EmailService) BuildMessage(data ContactEmailData) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.fromEmail)
	m.SetHeader("To", s.toEmail)
	m.SetHeader("Reply-To", data.SenderEmail)
	m.SetHeader("Subject", SubjectPrefix+data.Subject)
	m.SetBody("text/plain", RenderPlainText(data))
	m.AddAlternative("text/html", RenderHTML(data))
	return m
}

// NotifyOwner sends one notification for data to the owner address. The
// configured timeout is a deadline on the relay connection itself: when it
// passes the conversation is aborted and nothing is delivered. Cancellation of
// ctx is ignored so a client hanging up cannot cut a send in half.
func (s *EmailService) NotifyOwner(ctx context.Context, data ContactEmailData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	deadline := time.Now().Add(s.timeout)
	ctx, cancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer cancel()

	return s.deliver(ctx, deadline, s.BuildMessage(data))
}

// deliver holds one relay connection for exactly one message. The connection
// is closed on every path; a failed QUIT after an accepted message is ignored.
func (s *EmailService) deliver(ctx context.Context, deadline time.Time, msg *gomail.Message) error {
	conn, err := s.dial(ctx, deadline)
	if err != nil {
		return fmt.Errorf("failed to connect to %s:%d: %w", s.host, s.port, err)
	}
	defer conn.Close()

	if err := gomail.Send(conn, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
