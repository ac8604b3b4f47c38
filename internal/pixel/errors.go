package pixel

import (
	"errors"
	"fmt"
)

// ErrCorpusMismatch indicates image and label streams that cannot be paired.
var ErrCorpusMismatch = errors.New("corpus mismatch")

// CorpusError locates a corpus problem. Line and Column are 1-based; zero means unknown.
type CorpusError struct {
	Stream string
	Reason string
	Line   int
	Column int
}

func (e *CorpusError) Error() string {
	loc := ""
	switch {
	case e.Line > 0 && e.Column > 0:
		loc = fmt.Sprintf(" at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		loc = fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Stream != "" {
		return fmt.Sprintf("%v: %s stream%s: %s", ErrCorpusMismatch, e.Stream, loc, e.Reason)
	}
	return fmt.Sprintf("%v%s: %s", ErrCorpusMismatch, loc, e.Reason)
}

func (e *CorpusError) Unwrap() error {
	return ErrCorpusMismatch
}
