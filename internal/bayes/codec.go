package bayes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Model file layout: the first line holds the NumClasses priors, followed by
// one line per pixel in row-major order holding the conditionals for that
// pixel, digit-major and shade-minor. Every value is followed by a single
// space.
const (
	priorLineTokens = NumClasses
	pixelLineTokens = NumClasses * NumShades
	modelFileLines  = 1 + numPixels
)

// maxModelLine bounds a single line of model data.
const maxModelLine = 1 << 20

// appendFloat matches the default ostream rendering of a double: six
// significant digits, shortest of fixed or exponent form.
func appendFloat(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'g', 6, 64)
}

// WriteTo writes the model in text form. It implements io.WriterTo.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	line := make([]byte, 0, 512)

	writeLine := func(values []float64) error {
		line = line[:0]
		for _, v := range values {
			line = appendFloat(line, v)
			line = append(line, ' ')
		}
		line = append(line, '\n')
		n, err := bw.Write(line)
		written += int64(n)
		return err
	}

	if err := writeLine(m.priors[:]); err != nil {
		return written, fmt.Errorf("failed to write priors: %w", err)
	}
	for p := 0; p < numPixels; p++ {
		if err := writeLine(m.conditionals[p*pixelLineTokens : (p+1)*pixelLineTokens]); err != nil {
			return written, fmt.Errorf("failed to write pixel %d: %w", p, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("failed to flush model: %w", err)
	}
	return written, nil
}

// WriteFile writes the model to path, replacing any existing file.
func (m *Model) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close model file: %w", closeErr)
		}
	}()

	if _, err := m.WriteTo(f); err != nil {
		return err
	}
	return nil
}

// ReadModelFile loads a model written by WriteFile.
func ReadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadModel(f)
}

// ReadModel parses model data. Tokens may be separated by any run of
// whitespace; trailing whitespace is ignored.
func ReadModel(r io.Reader) (*Model, error) {
	m := &Model{conditionals: make([]float64, numConditionals)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxModelLine)

	line := 0
	values := make([]float64, 0, pixelLineTokens)
	for scanner.Scan() {
		line++
		tokens := tokenize(scanner.Bytes())

		if line > modelFileLines {
			if len(tokens) > 0 {
				return nil, &ModelFileError{Line: line, Column: tokens[0].column, Reason: "unexpected data after last pixel line"}
			}
			continue
		}

		want := pixelLineTokens
		if line == 1 {
			want = priorLineTokens
		}
		if len(tokens) != want {
			return nil, &ModelFileError{Line: line, Reason: fmt.Sprintf("expected %d values, got %d", want, len(tokens))}
		}

		values = values[:0]
		for _, tok := range tokens {
			v, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				var numErr *strconv.NumError
				if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
					return nil, &ModelFileError{Line: line, Column: tok.column, Reason: fmt.Sprintf("value %q out of range", tok.text)}
				}
				return nil, &ModelFileError{Line: line, Column: tok.column, Reason: fmt.Sprintf("invalid number %q", tok.text)}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ModelFileError{Line: line, Column: tok.column, Reason: fmt.Sprintf("non-finite value %q", tok.text)}
			}
			values = append(values, v)
		}

		if line == 1 {
			copy(m.priors[:], values)
		} else {
			p := line - 2
			copy(m.conditionals[p*pixelLineTokens:], values)
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ModelFileError{Line: line + 1, Reason: "line too long"}
		}
		return nil, fmt.Errorf("failed to read model data: %w", err)
	}

	if line < modelFileLines {
		return nil, &ModelFileError{
			Line:   line + 1,
			Reason: fmt.Sprintf("unexpected end of data: got %d of %d pixel lines", max(line-1, 0), numPixels),
		}
	}

	return m, nil
}

type token struct {
	text   string
	column int
}

// tokenize splits a line on runs of ASCII whitespace, recording 1-based columns.
func tokenize(b []byte) []token {
	var tokens []token
	start := -1
	for i, c := range b {
		if isSpace(c) {
			if start >= 0 {
				tokens = append(tokens, token{text: string(b[start:i]), column: start + 1})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: string(b[start:]), column: start + 1})
	}
	return tokens
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
