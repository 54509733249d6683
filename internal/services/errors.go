package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUseAdminEndpoint   = errors.New("admin users must use the admin login endpoint")
	ErrNotAuthorized      = errors.New("only admin users can login here")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotFound           = errors.New("not found")
)

// translateNotFound maps the storage layer's missing-row error onto ErrNotFound.
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isDuplicateKey reports a unique-constraint violation raised by an insert or update.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
