package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// Register custom "ighandle" validator. The single accepted policy:
	// an Instagram identity is either a handle starting with "@" or a
	// full https:// profile URL. The two legacy submission forms each
	// enforced one of these; the service accepts both.
	_ = v.RegisterValidation("ighandle", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		str = strings.TrimSpace(str)
		return strings.HasPrefix(str, "@") || strings.HasPrefix(str, "https://")
	})

	return v
}
