package domain

import (
	"context"

	"contact-relay-backend/pkg/apperror"
)

// ContactRequest represents a contact form submission as sent by the browser.
// JSON falsy values (null, false, 0, "", [] and {}) and absent fields are "".
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,loose_email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// Submission is a fully validated contact request.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactResult is the acknowledgment returned for an accepted submission.
type ContactResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
	Warning   string `json:"warning,omitempty"`
}

const (
	ContactReceivedMessage    = "Your message has been received! I'll get back to you soon."
	NotificationFailedWarning = "Message received but email notification failed to send"
)

// Client input errors. Each maps to a 400 with its message as the reason.
var (
	ErrMissingBody        = apperror.BadRequest("No data provided")
	ErrMissingFields      = apperror.BadRequest("Missing required fields")
	ErrInvalidEmailFormat = apperror.BadRequest("Invalid email format")
)

// ValidationError carries the per-field detail behind a rejected submission.
// It unwraps to Reason so errors.Is matches the sentinels above.
type ValidationError struct {
	Reason *apperror.AppError
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.Reason.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SubmitContact validates the raw request body and notifies the owner.
	// Validation failures are returned as errors; a failed notification is
	// reported through ContactResult.EmailSent instead.
	SubmitContact(ctx context.Context, body []byte) (*ContactResult, error)
}
