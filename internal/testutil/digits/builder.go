package digits

import (
	"strconv"
	"strings"
	"testing"

	"github.com/Veraticus/digit-bayes/internal/pixel"
)

// Builder constructs a single test image.
type Builder struct {
	t     testing.TB
	grid  pixel.Grid
	label int
}

// NewBuilder returns a builder for a blank, unlabeled image.
func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	b := &Builder{t: t, label: pixel.Unlabeled}
	for x := range b.grid {
		for y := range b.grid[x] {
			b.grid[x][y] = pixel.Blank
		}
	}
	return b
}

// Set writes the raw character c at (x, y).
func (b *Builder) Set(x, y int, c byte) *Builder {
	b.t.Helper()
	if x < 0 || x >= pixel.Size || y < 0 || y >= pixel.Size {
		b.t.Fatalf("pixel (%d, %d) out of range", x, y)
	}
	b.grid[x][y] = c
	return b
}

// FillRows inks every pixel of the given rows.
func (b *Builder) FillRows(rows ...int) *Builder {
	b.t.Helper()
	for _, x := range rows {
		for y := 0; y < pixel.Size; y++ {
			b.Set(x, y, pixel.Dark)
		}
	}
	return b
}

// FillColumns inks every pixel of the given columns.
func (b *Builder) FillColumns(cols ...int) *Builder {
	b.t.Helper()
	for _, y := range cols {
		for x := 0; x < pixel.Size; x++ {
			b.Set(x, y, pixel.Dark)
		}
	}
	return b
}

// FillAll inks the whole grid with c.
func (b *Builder) FillAll(c byte) *Builder {
	for x := range b.grid {
		for y := range b.grid[x] {
			b.grid[x][y] = c
		}
	}
	return b
}

// Label sets the digit label.
func (b *Builder) Label(digit int) *Builder {
	b.label = digit
	return b
}

// Build returns the image.
func (b *Builder) Build() pixel.Image {
	return pixel.NewImage(b.grid, b.label)
}

// Blank returns an all-space image carrying label.
func Blank(t testing.TB, label int) pixel.Image {
	t.Helper()
	return NewBuilder(t).Label(label).Build()
}

// Inked returns an all-'#' image carrying label.
func Inked(t testing.TB, label int) pixel.Image {
	t.Helper()
	return NewBuilder(t).FillAll(pixel.Dark).Label(label).Build()
}

// Stripes returns one image per digit 0-9, where digit d has column 2*d+4
// inked. Every digit is distinguishable from every other.
func Stripes(t testing.TB) []pixel.Image {
	t.Helper()
	images := make([]pixel.Image, 0, pixel.NumDigits)
	for d := 0; d < pixel.NumDigits; d++ {
		images = append(images, NewBuilder(t).FillColumns(2*d+4).Label(d).Build())
	}
	return images
}

// Corpus renders images into an image stream and a label stream.
func Corpus(images []pixel.Image) (imageText, labelText string) {
	var ib, lb strings.Builder
	for _, img := range images {
		ib.WriteString(img.String())
		lb.WriteString(strconv.Itoa(img.Label()))
		lb.WriteByte('\n')
	}
	return ib.String(), lb.String()
}
