package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/digit-bayes/internal/bayes"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidModel      = errors.New("invalid model")
	ErrInvalidEvaluation = errors.New("invalid evaluation")
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateModel(model *bayes.Model, imageCount int) error {
	if model == nil {
		return fmt.Errorf("%w: model", ErrNilParameter)
	}
	if imageCount <= 0 {
		return fmt.Errorf("%w: image count must be positive, got %d", ErrInvalidModel, imageCount)
	}
	return nil
}

func validateEvaluation(eval *bayes.Evaluation) error {
	if eval == nil {
		return fmt.Errorf("%w: evaluation", ErrNilParameter)
	}
	if eval.Total <= 0 {
		return fmt.Errorf("%w: no images evaluated", ErrInvalidEvaluation)
	}
	if eval.Correct < 0 || eval.Correct > eval.Total {
		return fmt.Errorf("%w: %d correct out of %d", ErrInvalidEvaluation, eval.Correct, eval.Total)
	}
	return nil
}
