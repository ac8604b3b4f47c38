package bayes

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned when training on zero images.
	ErrEmptyCorpus = errors.New("empty training corpus")
	// ErrEmptyInput is returned when evaluating zero images.
	ErrEmptyInput = errors.New("no images to evaluate")
	// ErrMalformedModelFile is returned when persisted model data cannot be parsed.
	ErrMalformedModelFile = errors.New("malformed model file")
)

// ModelFileError locates a problem in persisted model data. Line and Column
// are 1-based; Column is zero when the whole line is at fault.
type ModelFileError struct {
	Reason string
	Line   int
	Column int
}

func (e *ModelFileError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%v: line %d, column %d: %s", ErrMalformedModelFile, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("%v: line %d: %s", ErrMalformedModelFile, e.Line, e.Reason)
}

func (e *ModelFileError) Unwrap() error {
	return ErrMalformedModelFile
}
