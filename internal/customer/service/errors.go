package service

import (
	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
)

var (
	ErrCustomerNotFound = commonerrors.ErrCustomerNotFound
	ErrValidation       = commonerrors.ErrValidation
)
