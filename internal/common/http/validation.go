package http

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id format")

func ValidateUUID(s string) error {
	if s == "" {
		return ErrInvalidID
	}
	if _, err := uuid.Parse(s); err != nil {
		return ErrInvalidID
	}
	return nil
}
