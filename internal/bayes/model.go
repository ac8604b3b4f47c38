// Package bayes implements a Naive Bayes digit classifier over binarized pixel images.
//
// A Model holds per-digit priors and per-pixel shade likelihoods estimated
// with Laplace smoothing. A Classifier applies the maximum a posteriori rule
// to a Model in log space.
package bayes

import (
	"fmt"
	"math"

	"github.com/Veraticus/digit-bayes/internal/pixel"
)

const (
	// NumClasses is the number of digit classes.
	NumClasses = pixel.NumDigits
	// NumShades is the number of pixel shades.
	NumShades = pixel.NumShades
	// LaplaceConstant is the additive smoothing pseudo-count.
	LaplaceConstant = 2
	// DefaultEpsilon is the tolerance used by ApproxEqual. The text model
	// format keeps six significant digits.
	DefaultEpsilon = 1e-6

	numPixels       = pixel.Size * pixel.Size
	numConditionals = numPixels * NumClasses * NumShades
)

// Model holds trained or loaded Naive Bayes parameters. It is immutable once
// constructed.
type Model struct {
	// conditionals is laid out as (((x*Size+y)*NumClasses+d)*NumShades+s).
	conditionals []float64
	priors       [NumClasses]float64
}

// NewModel builds a model from explicit parameters. conditionals must use the
// flat layout described on Conditional and is copied.
func NewModel(priors [NumClasses]float64, conditionals []float64) (*Model, error) {
	if len(conditionals) != numConditionals {
		return nil, fmt.Errorf("expected %d conditionals, got %d", numConditionals, len(conditionals))
	}

	c := make([]float64, numConditionals)
	copy(c, conditionals)
	return &Model{priors: priors, conditionals: c}, nil
}

func index(x, y, digit int, shade pixel.Shade) int {
	if x < 0 || x >= pixel.Size || y < 0 || y >= pixel.Size {
		panic(fmt.Sprintf("bayes: pixel (%d, %d) out of range", x, y))
	}
	if digit < 0 || digit >= NumClasses {
		panic(fmt.Sprintf("bayes: digit %d out of range", digit))
	}
	if shade < 0 || int(shade) >= NumShades {
		panic(fmt.Sprintf("bayes: shade %d out of range", shade))
	}
	return (((x*pixel.Size+y)*NumClasses+digit)*NumShades + int(shade))
}

// Prior returns P(class = digit).
func (m *Model) Prior(digit int) float64 {
	return m.priors[digit]
}

// Priors returns a copy of all priors in digit order.
func (m *Model) Priors() [NumClasses]float64 {
	return m.priors
}

// Conditional returns P(pixel (x, y) has shade | class = digit). It panics on
// out of range arguments.
func (m *Model) Conditional(x, y, digit int, shade pixel.Shade) float64 {
	return m.conditionals[index(x, y, digit, shade)]
}

// ApproxEqual reports whether m and other are Equal within DefaultEpsilon.
func (m *Model) ApproxEqual(other *Model) bool {
	return m.Equal(other, DefaultEpsilon)
}

// Equal reports whether every prior and conditional of m and other differ by
// at most epsilon.
func (m *Model) Equal(other *Model, epsilon float64) bool {
	if m == nil || other == nil {
		return m == other
	}

	for d := range m.priors {
		if math.Abs(m.priors[d]-other.priors[d]) > epsilon {
			return false
		}
	}

	if len(m.conditionals) != len(other.conditionals) {
		return false
	}
	for i, p := range m.conditionals {
		if math.Abs(p-other.conditionals[i]) > epsilon {
			return false
		}
	}

	return true
}
