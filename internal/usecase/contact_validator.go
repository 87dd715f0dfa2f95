package usecase

import (
	"bytes"
	"encoding/json"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/apperror"
	"contact-relay-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ContactValidator turns a raw request body into a Submission.
type ContactValidator struct {
	validate *validator.Validate
}

func NewContactValidator(validate *validator.Validate) *ContactValidator {
	if validate == nil {
		validate = validation.New()
	}
	return &ContactValidator{validate: validate}
}

// Validate rejects with ErrMissingBody, ErrMissingFields or
// ErrInvalidEmailFormat, in that order of precedence. Field-level rejections
// come wrapped in a *domain.ValidationError.
func (v *ContactValidator) Validate(body []byte) (domain.Submission, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return domain.Submission{}, domain.ErrMissingBody
	}

	// An object with no keys, null, arrays and scalars all count as no data.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return domain.Submission{}, domain.ErrMissingBody
	}

	email, emailIsString := fieldText(fields["email"])
	subject, _ := fieldText(fields["subject"])
	req := domain.ContactRequest{
		Name:    text(fields["name"]),
		Email:   email,
		Subject: subject,
		Message: text(fields["message"]),
	}

	if err := v.validate.Struct(&req); err != nil {
		if validation.HasTag(err, "required") {
			return domain.Submission{}, rejection(domain.ErrMissingFields, validation.FormatValidationErrors(err))
		}
		if validation.HasTag(err, validation.LooseEmailTag) {
			return domain.Submission{}, rejection(domain.ErrInvalidEmailFormat, validation.FormatValidationErrors(err))
		}
		return domain.Submission{}, err
	}
	if !emailIsString {
		return domain.Submission{}, rejection(domain.ErrInvalidEmailFormat, []string{"email: must be a string"})
	}

	return domain.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}, nil
}

func rejection(reason *apperror.AppError, fields []string) error {
	return &domain.ValidationError{Reason: reason, Fields: fields}
}

func text(raw json.RawMessage) string {
	s, _ := fieldText(raw)
	return s
}

// fieldText renders a JSON value as form text and reports whether it was a
// JSON string. Falsy values (null, false, 0, "", [] and {}) render as "";
// any other non-string keeps its compact JSON text.
func fieldText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", false
	}

	switch t := value.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		if !t {
			return "", false
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return "", false
		}
	case []any:
		if len(t) == 0 {
			return "", false
		}
	case map[string]any:
		if len(t) == 0 {
			return "", false
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", false
	}
	return buf.String(), false
}
