// Package pixel provides the binarized 28x28 digit image and corpus ingestion.
package pixel

import (
	"fmt"
	"strings"
)

// Size is the width and height of every image.
const Size = 28

// NumDigits is the number of digit classes an image can be labeled with.
const NumDigits = 10

// Unlabeled marks an image whose digit is unknown.
const Unlabeled = -1

// Raw pixel characters.
const (
	Blank byte = ' '
	Dark  byte = '#'
	Edge  byte = '+'
)

// Shade is the binarized state of a pixel.
type Shade int

const (
	// Light is a background pixel.
	Light Shade = 0
	// Filled is an inked pixel, written as '#' or '+'.
	Filled Shade = 1
)

// NumShades is the number of distinct shades a pixel can take.
const NumShades = 2

// ShadeOf maps a raw pixel character to its shade.
func ShadeOf(c byte) Shade {
	if c == Dark || c == Edge {
		return Filled
	}
	return Light
}

// Grid is the raw character content of an image, indexed [row][column].
type Grid [Size][Size]byte

// Image is an immutable, optionally labeled digit bitmap.
type Image struct {
	pixels Grid
	label  int
}

// NewImage stores pixels and label verbatim. No validation is performed.
func NewImage(pixels Grid, label int) Image {
	return Image{pixels: pixels, label: label}
}

// ParseImage builds an image from text rows using the same row rules as ReadImages.
func ParseImage(rows []string, label int) (Image, error) {
	if len(rows) != Size {
		return Image{}, &CorpusError{Reason: fmt.Sprintf("expected %d rows, got %d", Size, len(rows))}
	}

	var grid Grid
	for x, row := range rows {
		if err := fillRow(&grid, x, row); err != nil {
			err.Line = x + 1
			return Image{}, err
		}
	}
	return NewImage(grid, label), nil
}

// Pixels returns a copy of the raw grid.
func (img Image) Pixels() Grid {
	return img.pixels
}

// Pixel returns the raw character at row x, column y.
func (img Image) Pixel(x, y int) byte {
	return img.pixels[x][y]
}

// Shade returns the binarized shade at row x, column y.
func (img Image) Shade(x, y int) Shade {
	return ShadeOf(img.pixels[x][y])
}

// Label returns the digit this image depicts, or Unlabeled.
func (img Image) Label() int {
	return img.label
}

// IsLabeled reports whether the image carries a digit label in 0-9.
func (img Image) IsLabeled() bool {
	return img.label >= 0 && img.label < NumDigits
}

// WithLabel returns a copy of the image carrying label.
func (img Image) WithLabel(label int) Image {
	img.label = label
	return img
}

// String renders the grid as Size newline-terminated rows.
func (img Image) String() string {
	var b strings.Builder
	b.Grow(Size * (Size + 1))
	for _, row := range img.pixels {
		b.Write(row[:])
		b.WriteByte('\n')
	}
	return b.String()
}

// fillRow copies one text row into grid row x. Short rows are padded with blanks.
func fillRow(grid *Grid, x int, row string) *CorpusError {
	row = strings.TrimSuffix(row, "\r")
	if len(row) > Size {
		return &CorpusError{Column: Size + 1, Reason: fmt.Sprintf("row is %d characters wide, want at most %d", len(row), Size)}
	}

	for y := 0; y < Size; y++ {
		if y >= len(row) {
			grid[x][y] = Blank
			continue
		}
		c := row[y]
		if c != Blank && c != Dark && c != Edge {
			return &CorpusError{Column: y + 1, Reason: fmt.Sprintf("unrecognized pixel %q", c)}
		}
		grid[x][y] = c
	}
	return nil
}
