package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation wraps a request that decoded but broke a field rule.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps a request that could not be decoded at all.
	ErrBinding = errors.New("binding failed")
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()

	// Name fields the way clients send them: the json key for bodies, the
	// form key for query strings.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}

			if name != "" {
				return name
			}
		}

		return f.Name
	})

	// Quote text and categories are trimmed before they reach the domain, so
	// whitespace alone counts as empty.
	_ = v.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Validator returns the validator shared by every request type.
func Validator() *validator.Validate {
	return requestValidator
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := requestValidator.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// bindingError remembers which part of the request failed to decode.
type bindingError struct {
	source string
	err    error
}

func (e *bindingError) Error() string { return e.source + ": " + e.err.Error() }
func (e *bindingError) Unwrap() []error { return []error{ErrBinding, e.err} }

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return &bindingError{source: "body", err: err}
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return &bindingError{source: "query", err: err}
	}

	return Validate(v)
}

// FieldErrors turns a Bind*AndValidate error into the details map of a 400
// response. A request that did not decode is reported under "body" or
// "query".
func FieldErrors(err error) map[string]string {
	var be *bindingError
	if errors.As(err, &be) {
		if be.source == "query" {
			return map[string]string{"query": "contains a value of the wrong type"}
		}

		return map[string]string{"body": "must be a valid JSON object"}
	}

	return ValidationErrors(err)
}

// ValidationErrors maps each failed field to a readable message.
func ValidationErrors(err error) map[string]string {
	out := map[string]string{}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out[fe.Field()] = validationMessage(fe)
		}
	}

	return out
}

// IsValidationError reports whether err carries field rule failures.
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "notempty":
		return "must not be empty"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min", "max":
		return minMaxMessage(fe.Tag(), fe.Param(), fe.Type().Kind())
	default:
		return "failed validation: " + fe.Tag()
	}
}

func minMaxMessage(tag, param string, kind reflect.Kind) string {
	bound := "at least "
	if tag == "max" {
		bound = "at most "
	}

	msg := "must be " + bound + param
	if kind == reflect.String {
		msg += " characters"
	}

	return msg
}
