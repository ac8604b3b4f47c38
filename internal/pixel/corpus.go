package pixel

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// ReadImages reads unlabeled images from r. Every Size consecutive lines form
// one image in row-major order.
func ReadImages(r io.Reader) ([]Image, error) {
	var (
		images []Image
		grid   Grid
		row    int
		line   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		if err := fillRow(&grid, row, scanner.Text()); err != nil {
			err.Stream = "image"
			err.Line = line
			return nil, err
		}

		row++
		if row == Size {
			images = append(images, NewImage(grid, Unlabeled))
			row = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image stream: %w", err)
	}

	if row != 0 {
		return nil, &CorpusError{
			Stream: "image",
			Line:   line,
			Reason: fmt.Sprintf("%d lines is not a multiple of %d; trailing image has %d rows", line, Size, row),
		}
	}

	return images, nil
}

// ReadLabels reads one decimal digit label per line. Blank lines are skipped.
func ReadLabels(r io.Reader) ([]int, error) {
	var labels []int
	line := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		label, err := strconv.Atoi(text)
		if err != nil {
			return nil, &CorpusError{Stream: "label", Line: line, Reason: fmt.Sprintf("invalid label %q", text)}
		}
		if label < 0 || label >= NumDigits {
			return nil, &CorpusError{Stream: "label", Line: line, Reason: fmt.Sprintf("label %d out of range 0-%d", label, NumDigits-1)}
		}
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label stream: %w", err)
	}

	return labels, nil
}

// GenerateCorpus pairs the Nth image of imageStream with the Nth label of
// labelStream. The label stream is read fully first.
func GenerateCorpus(imageStream, labelStream io.Reader) ([]Image, error) {
	labels, err := ReadLabels(labelStream)
	if err != nil {
		return nil, err
	}

	images, err := ReadImages(imageStream)
	if err != nil {
		return nil, err
	}

	if len(labels) < len(images) {
		return nil, &CorpusError{
			Stream: "label",
			Reason: fmt.Sprintf("%d labels for %d images", len(labels), len(images)),
		}
	}
	if len(labels) > len(images) {
		slog.Debug("Ignoring surplus labels",
			"labels", len(labels),
			"images", len(images))
	}

	for i := range images {
		images[i] = images[i].WithLabel(labels[i])
	}

	return images, nil
}
