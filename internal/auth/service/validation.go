package service

import (
	"strings"
	"unicode/utf8"

	"github.com/gnr-surgicals/inventory/internal/common/constants"
)

type registration struct {
	username string
	password string
	name     string
}

func normalizeRegistration(input RegisterInput) (registration, error) {
	reg := registration{
		username: strings.TrimSpace(input.Username),
		password: input.Password,
		name:     strings.TrimSpace(input.Name),
	}

	if reg.username == "" || reg.password == "" {
		return registration{}, ErrInvalidInput.WithMessage("username and password are required")
	}
	if utf8.RuneCountInString(reg.username) > constants.UsernameMaxLength {
		return registration{}, ErrInvalidInput.WithMessage("username is too long")
	}
	// bcrypt ignores input past 72 bytes.
	if len(reg.password) > constants.PasswordMaxLength {
		return registration{}, ErrInvalidInput.WithMessage("password is too long")
	}
	if utf8.RuneCountInString(reg.name) > constants.NameMaxLength {
		return registration{}, ErrInvalidInput.WithMessage("name is too long")
	}

	return reg, nil
}

func normalizeLogin(input LoginInput) (string, string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return "", "", ErrInvalidInput.WithMessage("username and password are required")
	}
	return username, input.Password, nil
}
