package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/apperror"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/metrics"
)

// OwnerNotifier delivers a notification about a submission to the site owner.
type OwnerNotifier interface {
	NotifyOwner(ctx context.Context, data email.ContactEmailData) error
}

type contactUsecase struct {
	validator *ContactValidator
	notifier  OwnerNotifier
	log       *slog.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(validator *ContactValidator, notifier OwnerNotifier, log *slog.Logger) domain.ContactUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &contactUsecase{
		validator: validator,
		notifier:  notifier,
		log:       log,
	}
}

// SubmitContact validates the body and, if it is accepted, notifies the owner.
func (uc *contactUsecase) SubmitContact(ctx context.Context, body []byte) (*domain.ContactResult, error) {
	sub, err := uc.validator.Validate(body)
	if err != nil {
		if _, ok := apperror.As(err); ok {
			metrics.ContactSubmissions.WithLabelValues("rejected").Inc()
			attrs := []any{"reason", err.Error()}
			var verr *domain.ValidationError
			if errors.As(err, &verr) && len(verr.Fields) > 0 {
				attrs = append(attrs, "fields", verr.Fields)
			}
			uc.log.Info("Contact submission rejected", attrs...)
			return nil, err
		}
		return nil, apperror.Internal(err)
	}
	metrics.ContactSubmissions.WithLabelValues("accepted").Inc()

	result := &domain.ContactResult{
		Success:   true,
		Message:   domain.ContactReceivedMessage,
		EmailSent: uc.dispatch(ctx, sub),
	}
	if !result.EmailSent {
		result.Warning = domain.NotificationFailedWarning
	}
	return result, nil
}

// dispatch reports whether the owner was notified. Failures are logged and
// never returned.
func (uc *contactUsecase) dispatch(ctx context.Context, sub domain.Submission) bool {
	start := time.Now()
	err := uc.notifier.NotifyOwner(ctx, email.ContactEmailData{
		SenderName:  sub.Name,
		SenderEmail: sub.Email,
		Subject:     sub.Subject,
		Message:     sub.Message,
	})
	metrics.MailSendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailSend.WithLabelValues("failure").Inc()
		attrs := []any{"error", err}
		if errors.Is(err, email.ErrNotConfigured) {
			attrs = append(attrs, "hint", "set EMAIL_PASSWORD")
		}
		uc.log.Error("Failed to send email notification", attrs...)
		return false
	}

	metrics.MailSend.WithLabelValues("success").Inc()
	uc.log.Info("Email notification sent successfully")
	return true
}
