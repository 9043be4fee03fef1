package services

import (
	"errors"

	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/database"
)

// Error kinds. Controllers map them to status codes with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = repositories.ErrNotFound
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrTooLarge         = errors.New("payload too large")
	ErrStorage          = database.ErrStorage
)

// Error is a client-safe failure: Message is sent as-is in the response
// body and Kind decides the status code.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
