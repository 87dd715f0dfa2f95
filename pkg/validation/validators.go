package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// LooseEmailTag is the tag name of the permissive email shape check.
const LooseEmailTag = "loose_email"

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation(LooseEmailTag, LooseEmail)
}

// New returns a validator with the custom validators registered and field
// names reported by their json tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	RegisterValidators(v)
	return v
}

// LooseEmail accepts any value containing both '@' and '.', in any order.
// It is deliberately weaker than RFC 5322: "a@.b" and "@." pass.
func LooseEmail(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return strings.Contains(val, "@") && strings.Contains(val, ".")
}
