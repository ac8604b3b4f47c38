package bayes

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Veraticus/digit-bayes/internal/pixel"
	"github.com/Veraticus/digit-bayes/internal/testutil/digits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformModel(t *testing.T, priors [NumClasses]float64) *Model {
	t.Helper()
	conditionals := make([]float64, numConditionals)
	for i := range conditionals {
		conditionals[i] = 0.5
	}
	m, err := NewModel(priors, conditionals)
	require.NoError(t, err)
	return m
}

func TestClassifier_ScenarioB(t *testing.T) {
	model, err := EstimateFromCorpus(scenarioA(t))
	require.NoError(t, err)
	c := NewClassifier(model)

	blank := digits.Blank(t, pixel.Unlabeled)
	scores := c.Scores(blank)
	assert.Greater(t, scores[0], scores[1])
	assert.InDelta(t, math.Log(2.0/3)+pixel.Size*pixel.Size*math.Log(4.0/6), scores[0], 1e-9)
	assert.InDelta(t, math.Log(1.0/3)+pixel.Size*pixel.Size*math.Log(3.0/5), scores[1], 1e-9)
	for d := 2; d < NumClasses; d++ {
		assert.True(t, math.IsInf(scores[d], -1), "digit %d has no prior mass", d)
	}

	assert.Equal(t, 0, c.Classify(blank))
}

func TestClassifier_CalculateAccuracy(t *testing.T) {
	t.Run("identical images across classes", func(t *testing.T) {
		// Both digits see the same blank image, so the larger prior wins every time.
		images := scenarioA(t)
		model, err := EstimateFromCorpus(images)
		require.NoError(t, err)

		accuracy, err := NewClassifier(model).CalculateAccuracy(images)
		require.NoError(t, err)
		assert.InDelta(t, 2.0/3, accuracy, 1e-12)
	})

	t.Run("pixel identical within each class", func(t *testing.T) {
		images := []pixel.Image{
			digits.Blank(t, 0),
			digits.Blank(t, 0),
			digits.Inked(t, 1),
		}
		model, err := EstimateFromCorpus(images)
		require.NoError(t, err)

		accuracy, err := NewClassifier(model).CalculateAccuracy(images)
		require.NoError(t, err)
		assert.Equal(t, 1.0, accuracy)
	})

	t.Run("all ten digits", func(t *testing.T) {
		images := digits.Stripes(t)
		model, err := EstimateFromCorpus(images)
		require.NoError(t, err)

		c := NewClassifier(model)
		accuracy, err := c.CalculateAccuracy(images)
		require.NoError(t, err)
		assert.Equal(t, 1.0, accuracy)

		for d, img := range images {
			assert.Equal(t, d, c.Classify(img))
		}
	})
}

func TestClassifier_TieGoesToLowestDigit(t *testing.T) {
	img := digits.NewBuilder(t).FillRows(4, 5).Build()

	even := uniformModel(t, [NumClasses]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1})
	assert.Equal(t, 0, NewClassifier(even).Classify(img))

	twoWay := uniformModel(t, [NumClasses]float64{0.05, 0.05, 0.05, 0.3, 0.05, 0.05, 0.05, 0.3, 0.05, 0.05})
	c := NewClassifier(twoWay)
	scores := c.Scores(img)
	require.Equal(t, scores[3], scores[7])
	assert.Equal(t, 3, c.Classify(img))
}

func TestClassifier_EmptyInput(t *testing.T) {
	model, err := EstimateFromCorpus(scenarioA(t))
	require.NoError(t, err)
	c := NewClassifier(model)

	_, err = c.CalculateAccuracy(nil)
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = c.Evaluate(context.Background(), []pixel.Image{}, EvaluateOptions{})
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestClassifier_Evaluate(t *testing.T) {
	training := randomCorpus(t, 300, 11)
	model, err := EstimateFromCorpus(training)
	require.NoError(t, err)
	c := NewClassifier(model)

	held := append(randomCorpus(t, 41, 99), digits.Blank(t, pixel.Unlabeled))

	serial, err := c.Evaluate(context.Background(), held, EvaluateOptions{Workers: 1})
	require.NoError(t, err)

	var progressed int
	parallel, err := c.Evaluate(context.Background(), held, EvaluateOptions{
		Workers:  5,
		Progress: func(n int) { progressed += n },
	})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, len(held), progressed)
	assert.Equal(t, len(held), parallel.Total)
	assert.Equal(t, 1, parallel.Unlabeled)

	var labeled, correct, diagonal int
	for d := 0; d < NumClasses; d++ {
		labeled += parallel.PerClass[d].Total
		correct += parallel.PerClass[d].Correct
		diagonal += parallel.Confusion[d][d]
	}
	assert.Equal(t, len(held)-1, labeled)
	assert.Equal(t, parallel.Correct, correct)
	assert.Equal(t, parallel.Correct, diagonal)

	for i, img := range held {
		assert.Equal(t, c.Classify(img), parallel.Predictions[i])
	}

	accuracy, err := c.CalculateAccuracy(held)
	require.NoError(t, err)
	assert.Equal(t, parallel.Accuracy(), accuracy)
	assert.Equal(t, float64(parallel.Correct)/float64(len(held)), accuracy)
}

func TestClassifier_EvaluateCancelled(t *testing.T) {
	model, err := EstimateFromCorpus(scenarioA(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewClassifier(model).Evaluate(ctx, scenarioA(t), EvaluateOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClassResult_Accuracy(t *testing.T) {
	assert.Equal(t, 0.0, ClassResult{}.Accuracy())
	assert.Equal(t, 0.75, ClassResult{Total: 4, Correct: 3}.Accuracy())
	assert.Equal(t, 0.0, (&Evaluation{}).Accuracy())
}
