// Package validation checks inbound payloads before they are forwarded to
// the backend. The backend stays authoritative; these checks only catch input
// the UI would have rejected anyway.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the project's custom tags.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with "contact_number" registered and field names
// reported by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("contact_number", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return contactNumberPattern.MatchString(value)
	})

	return &Validator{v: v}
}

// Struct validates s against its validate tags.
func (v *Validator) Struct(s any) error {
	return v.v.Struct(s)
}

// Var validates a single value against tag.
func (v *Validator) Var(field any, tag string) error {
	return v.v.Var(field, tag)
}

// Details maps each failing field to the tag it failed, or nil when err is
// not a validation failure.
func Details(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return nil
	}
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
