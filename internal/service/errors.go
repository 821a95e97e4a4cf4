package service

import (
	"errors"
	"fmt"
)

// Every error a service returns wraps exactly one of these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRoomInactive = errors.New("room is not active")
	ErrInvalidState = errors.New("invalid request")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
