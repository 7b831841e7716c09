package service

import (
	"net/http"

	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthenticated,
		http.StatusUnauthorized,
		"Invalid email or password",
	)

	ErrEmailTaken = commonerrors.ErrEmailAlreadyExists
	ErrValidation = commonerrors.ErrValidation
)
