package pixel

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockRows returns Size rows with a vertical bar of '#' in column col.
func blockRows(col int) []string {
	rows := make([]string, Size)
	for i := range rows {
		row := []byte(strings.Repeat(" ", Size))
		row[col] = Dark
		rows[i] = string(row)
	}
	return rows
}

func joinImages(imgs ...[]string) string {
	var b strings.Builder
	for _, rows := range imgs {
		for _, row := range rows {
			b.WriteString(row)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestGenerateCorpus(t *testing.T) {
	images := joinImages(blockRows(3), blockRows(10), blockRows(20))
	labels := "7\n1\n4\n"

	corpus, err := GenerateCorpus(strings.NewReader(images), strings.NewReader(labels))
	require.NoError(t, err)
	require.Len(t, corpus, 3)

	assert.Equal(t, 7, corpus[0].Label())
	assert.Equal(t, 1, corpus[1].Label())
	assert.Equal(t, 4, corpus[2].Label())

	assert.Equal(t, Filled, corpus[0].Shade(0, 3))
	assert.Equal(t, Light, corpus[0].Shade(0, 4))
	assert.Equal(t, Filled, corpus[1].Shade(27, 10))
	assert.Equal(t, Filled, corpus[2].Shade(14, 20))
}

func TestGenerateCorpus_SurplusLabelsIgnored(t *testing.T) {
	corpus, err := GenerateCorpus(
		strings.NewReader(joinImages(blockRows(0))),
		strings.NewReader("5\n6\n7\n"),
	)
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, 5, corpus[0].Label())
}

func TestGenerateCorpus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		images  string
		labels  string
		errPart string
	}{
		{
			name:    "fewer labels than images",
			images:  joinImages(blockRows(1), blockRows(2)),
			labels:  "3\n",
			errPart: "1 labels for 2 images",
		},
		{
			name:    "partial trailing image",
			images:  joinImages(blockRows(1)) + "   #\n  ##\n",
			labels:  "3\n4\n",
			errPart: "not a multiple of 28",
		},
		{
			name:    "non integer label",
			images:  joinImages(blockRows(1)),
			labels:  "x\n",
			errPart: "invalid label",
		},
		{
			name:    "label out of range",
			images:  joinImages(blockRows(1)),
			labels:  "12\n",
			errPart: "out of range",
		},
		{
			name:    "unknown pixel character",
			images:  strings.Replace(joinImages(blockRows(1)), "#", "@", 1),
			labels:  "3\n",
			errPart: "unrecognized pixel",
		},
		{
			name:    "row too wide",
			images:  strings.Repeat(" ", 29) + "\n" + joinImages(blockRows(1))[Size+1:],
			labels:  "3\n",
			errPart: "characters wide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateCorpus(strings.NewReader(tt.images), strings.NewReader(tt.labels))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorpusMismatch))
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestReadImages_LocatesBadPixel(t *testing.T) {
	rows := blockRows(0)
	rows[4] = "  ?"
	_, err := ReadImages(strings.NewReader(joinImages(blockRows(0), rows)))

	var corpusErr *CorpusError
	require.True(t, errors.As(err, &corpusErr))
	assert.Equal(t, Size+5, corpusErr.Line)
	assert.Equal(t, 3, corpusErr.Column)
	assert.Equal(t, "image", corpusErr.Stream)
}

func TestReadImages_PadsShortRowsAndStripsCR(t *testing.T) {
	rows := make([]string, Size)
	rows[0] = "++\r"
	images, err := ReadImages(strings.NewReader(joinImages(rows)))
	require.NoError(t, err)
	require.Len(t, images, 1)

	img := images[0]
	assert.Equal(t, Unlabeled, img.Label())
	assert.False(t, img.IsLabeled())
	assert.Equal(t, Edge, img.Pixel(0, 0))
	assert.Equal(t, Filled, img.Shade(0, 1))
	assert.Equal(t, Blank, img.Pixel(0, 2))
	assert.Equal(t, Blank, img.Pixel(27, 27))
}

func TestReadImages_Empty(t *testing.T) {
	images, err := ReadImages(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestReadLabels_SkipsBlankLines(t *testing.T) {
	labels, err := ReadLabels(strings.NewReader("1\n\n 2 \r\n3"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, labels)
}
