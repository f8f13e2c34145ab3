package service

import (
	"errors"

	accountrepo "github.com/gnr-surgicals/inventory/internal/account/repository"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.ErrInvalidCredentials
	ErrUsernameTaken      = commonerrors.ErrUsernameTaken
	ErrInvalidInput       = commonerrors.ErrInvalidInput
)

// storeError keeps domain errors, including an open circuit, and wraps
// everything else as a database failure.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if commonerrors.IsDomainError(err) {
		return err
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}

func expected(err error) error {
	switch {
	case errors.Is(err, accountrepo.ErrAccountNotFound):
		return ErrInvalidCredentials
	case errors.Is(err, accountrepo.ErrUsernameAlreadyExists):
		return ErrUsernameTaken
	default:
		return err
	}
}
