// Package validation wraps go-playground/validator so request DTOs can declare their
// rules in struct tags, and turns the first violation into a client-facing
// ValidationError message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/auth"
)

// Validator validates structs tagged with `validate:"..."`.
// The underlying *validator.Validate caches struct metadata and is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the custom `strongpassword` rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name, which is what clients sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return auth.HasRequiredCharacterClasses(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register strongpassword: %v", err))
	}

	return &Validator{v: v}
}

// Struct validates s and returns an apperror ValidationError describing the first
// violated rule, or nil.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperror.NewValidationError(Message(fieldErrs[0]), err)
	}
	return apperror.NewValidationError("invalid input", err)
}

// Message renders a single field error the way clients expect to read it,
// e.g. "Title must contain at least 3 characters".
func Message(fe validator.FieldError) string {
	field := displayName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must contain at most %s characters", field, fe.Param())
	case "email":
		return "Please provide a valid email"
	case "strongpassword":
		return auth.ErrPasswordTooWeak.Error()
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
