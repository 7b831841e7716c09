package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/vmorozov/customer-hub/internal/common/constants"
	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lower-cases and trims an address; email uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(email, password string) []commonerrors.FieldError {
	var fields []commonerrors.FieldError

	if !emailRegex.MatchString(NormalizeEmail(email)) {
		fields = append(fields, commonerrors.FieldError{
			Field:   "email",
			Message: "Please provide a valid email address",
		})
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		fields = append(fields, commonerrors.FieldError{
			Field:   "password",
			Message: "Password must be at least 6 characters long",
		})
	}

	if !hasRequiredPasswordClasses(password) {
		fields = append(fields, commonerrors.FieldError{
			Field:   "password",
			Message: "Password must contain at least one uppercase letter, one lowercase letter, and one number",
		})
	}

	return fields
}

func validateLogin(email, password string) []commonerrors.FieldError {
	var fields []commonerrors.FieldError

	if !emailRegex.MatchString(NormalizeEmail(email)) {
		fields = append(fields, commonerrors.FieldError{
			Field:   "email",
			Message: "Please provide a valid email address",
		})
	}

	if password == "" {
		fields = append(fields, commonerrors.FieldError{
			Field:   "password",
			Message: "Password is required",
		})
	}

	return fields
}

func hasRequiredPasswordClasses(value string) bool {
	hasLower := false
	hasUpper := false
	hasDigit := false

	for _, r := range value {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if hasLower && hasUpper && hasDigit {
			return true
		}
	}

	return false
}
