package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrLimitExceeded      = errors.New("limit exceeded")
	ErrTooManyRequests    = errors.New("too many requests")

	// ErrTokenReused is returned for a refresh token that verifies but no longer
	// matches the one stored for the user.
	ErrTokenReused = fmt.Errorf("%w: refresh token is expired or used", ErrInvalidToken)
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func NewNotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func NewAlreadyExists(what string) error {
	return fmt.Errorf("%w: %s", ErrAlreadyExists, what)
}

func NewLimitExceeded(msg string) error {
	return fmt.Errorf("%w: %s", ErrLimitExceeded, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsTokenReused(err error) bool {
	return errors.Is(err, ErrTokenReused)
}

func IsInvalidOtp(err error) bool {
	return errors.Is(err, ErrInvalidOtp)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}

func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}
