package services

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error kinds. Handlers match them with errors.Is to pick a status code.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a domain failure with a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewError is Errorf for a message used verbatim.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// notFound turns a missing-row error into ErrNotFound with msg and passes
// anything else through with context.
func notFound(err error, msg, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewError(ErrNotFound, msg)
	}
	return errors.Wrap(err, op)
}
