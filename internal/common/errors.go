// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/pixel"
	"github.com/Veraticus/digit-bayes/internal/storage"
)

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Explain wraps classifier failures in a UserError describing what the user
// can do about them. Other errors are returned unchanged.
func Explain(err error) error {
	var userErr *UserError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &userErr):
		return err
	case errors.Is(err, pixel.ErrCorpusMismatch):
		return NewUserError("the image and label files do not line up", err)
	case errors.Is(err, bayes.ErrEmptyCorpus):
		return NewUserError("the training corpus contains no images", err)
	case errors.Is(err, bayes.ErrEmptyInput):
		return NewUserError("there are no images to evaluate", err)
	case errors.Is(err, bayes.ErrMalformedModelFile):
		return NewUserError("the model file is damaged or was not written by this tool", err)
	case errors.Is(err, storage.ErrNotFound):
		return NewUserError("no such model in the registry; run 'digits models' to list them", err)
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrMissingConfig):
		return NewUserError("check your configuration file and flags", err)
	}
	return err
}
