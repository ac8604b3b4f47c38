package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/digit-bayes/internal/bayes"
	"github.com/Veraticus/digit-bayes/internal/pixel"
	"github.com/Veraticus/digit-bayes/internal/testutil"
	"github.com/Veraticus/digit-bayes/internal/testutil/digits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "66.67%", FormatPercent(2.0/3))
	assert.Equal(t, "100.00%", FormatPercent(1))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestRenderEvaluation(t *testing.T) {
	images := []pixel.Image{
		digits.Blank(t, 0),
		digits.Blank(t, 0),
		digits.Blank(t, 1),
		digits.Blank(t, pixel.Unlabeled),
	}
	model, err := bayes.EstimateFromCorpus(images[:3])
	require.NoError(t, err)

	eval, err := bayes.NewClassifier(model).Evaluate(context.Background(), images, bayes.EvaluateOptions{})
	require.NoError(t, err)

	out := RenderEvaluation(eval)
	assert.Contains(t, out, "Accuracy: 50.00% (2 of 4)")
	assert.Contains(t, out, "Unlabeled images: 1")
	assert.Contains(t, out, "Most confused with")
	// Digit 1 is always mistaken for 0.
	assert.Contains(t, out, "0 (1)")
}

func TestRenderModels(t *testing.T) {
	assert.Contains(t, RenderModels(nil), "No models registered yet")

	db := testutil.SetupTestDB(t)
	db.SeedModel("stripes", digits.Stripes(t))
	db.SeedEvaluation("stripes", digits.Stripes(t))
	db.SeedModel("blank", []pixel.Image{digits.Blank(t, 3)})

	records, err := db.Storage.ListModels(context.Background())
	require.NoError(t, err)

	out := RenderModels(records)
	assert.Contains(t, out, "stripes")
	assert.Contains(t, out, "blank")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "-")
}

func TestRenderImage(t *testing.T) {
	img := digits.NewBuilder(t).FillRows(2).Set(5, 7, pixel.Edge).Label(4).Build()

	out := RenderImage(img)
	assert.Contains(t, out, "label 4")
	assert.Contains(t, out, strings.Repeat("#", pixel.Size))
	assert.Contains(t, out, "+")

	assert.Contains(t, RenderImage(digits.Blank(t, pixel.Unlabeled)), "unlabeled")
}
