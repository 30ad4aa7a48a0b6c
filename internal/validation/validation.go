package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"fitfam/internal/apperror"
)

var (
	validate  = newValidator()
	sanitizer = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates a decoded request body against its validate tags.
// Failures are returned as bad request errors with a readable message.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return apperror.New(apperror.ErrBadRequest, FormatValidationError(err), err)
	}
	return nil
}

// ValidateEmail checks that email is a plausible address
func ValidateEmail(email string) error {
	return field("email", email, "required,email,max=255")
}

// ValidatePassword checks password length limits
func ValidatePassword(password string) error {
	return field("password", password, "required,min=8,max=72")
}

func field(name string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return apperror.New(apperror.ErrBadRequest, fieldErrorMessage(name, validationErrors[0]), err)
	}
	return apperror.New(apperror.ErrBadRequest, err.Error(), err)
}

// FormatValidationError joins one message per failed field
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldErrorMessage(fe.Field(), fe))
	}
	return strings.Join(messages, "; ")
}

func fieldErrorMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// StripHTML removes every tag from user supplied text. The policy escapes
// what remains, so entities are decoded back to plain text.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}

// StripHTMLPtr is StripHTML for optional fields
func StripHTMLPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := StripHTML(*s)
	return &clean
}
