package service

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
)

// Optional leading +, then 1-16 digits not starting with zero.
var phoneRegex = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)

type customerInput struct {
	Name    string `validate:"required,min=2,max=100"`
	Address string `validate:"required,min=5,max=500"`
	Phone   string `validate:"required,phone"`
}

var fieldMessages = map[string]commonerrors.FieldError{
	"Name": {
		Field:   "name",
		Message: "Name must be between 2 and 100 characters",
	},
	"Address": {
		Field:   "address",
		Message: "Address must be between 5 and 500 characters",
	},
	"Phone": {
		Field:   "phone",
		Message: "Please provide a valid phone number",
	},
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return v
}

// validateFields reports every violated field, not only the first one.
func validateFields(v *validator.Validate, fields customerInput) []commonerrors.FieldError {
	err := v.Struct(fields)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []commonerrors.FieldError{{Field: "input", Message: "Invalid input"}}
	}

	seen := make(map[string]bool)
	var out []commonerrors.FieldError
	for _, fe := range validationErrs {
		msg, ok := fieldMessages[fe.StructField()]
		if !ok || seen[msg.Field] {
			continue
		}
		seen[msg.Field] = true
		out = append(out, msg)
	}
	return out
}
