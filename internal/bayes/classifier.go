package bayes

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/Veraticus/digit-bayes/internal/pixel"
	"golang.org/x/sync/errgroup"
)

// Classifier labels images with the maximum a posteriori digit under a Model.
// It is safe for concurrent use.
type Classifier struct {
	model *Model
	// Log-space copies of the model parameters, same layout as the model.
	logPriors       [NumClasses]float64
	logConditionals []float64
}

// NewClassifier wraps model.
func NewClassifier(model *Model) *Classifier {
	c := &Classifier{
		model:           model,
		logConditionals: make([]float64, len(model.conditionals)),
	}
	for d, p := range model.priors {
		c.logPriors[d] = math.Log(p)
	}
	for i, p := range model.conditionals {
		c.logConditionals[i] = math.Log(p)
	}
	return c
}

// NewClassifierFromReader reads model data from r and wraps it.
func NewClassifierFromReader(r io.Reader) (*Classifier, error) {
	model, err := ReadModel(r)
	if err != nil {
		return nil, err
	}
	return NewClassifier(model), nil
}

// Model returns the wrapped model.
func (c *Classifier) Model() *Model {
	return c.model
}

// Scores returns the unnormalized log-posterior of every digit for img.
func (c *Classifier) Scores(img pixel.Image) [NumClasses]float64 {
	scores := c.logPriors
	for x := 0; x < pixel.Size; x++ {
		for y := 0; y < pixel.Size; y++ {
			base := (x*pixel.Size+y)*NumClasses*NumShades + int(img.Shade(x, y))
			for d := range scores {
				scores[d] += c.logConditionals[base+d*NumShades]
			}
		}
	}
	return scores
}

// Classify returns the digit with the highest log-posterior for img. Ties go
// to the lowest digit.
func (c *Classifier) Classify(img pixel.Image) int {
	scores := c.Scores(img)
	best := 0
	for d := 1; d < NumClasses; d++ {
		if scores[d] > scores[best] {
			best = d
		}
	}
	return best
}

// CalculateAccuracy returns the fraction of images whose label matches the
// classified digit.
func (c *Classifier) CalculateAccuracy(images []pixel.Image) (float64, error) {
	eval, err := c.Evaluate(context.Background(), images, EvaluateOptions{})
	if err != nil {
		return 0, err
	}
	return eval.Accuracy(), nil
}

// EvaluateOptions tunes batch classification. Results do not depend on them.
type EvaluateOptions struct {
	// Progress, if set, receives the number of images classified as each chunk finishes.
	Progress func(n int)
	// Workers bounds the number of concurrent goroutines. Zero means runtime.NumCPU().
	Workers int
}

// ClassResult tallies evaluation results for images labeled with one digit.
type ClassResult struct {
	Total   int
	Correct int
}

// Accuracy returns Correct/Total, or zero when no images carried the digit.
func (r ClassResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Evaluation is the outcome of classifying a batch of images.
type Evaluation struct {
	// Predictions holds the classified digit for each image, in input order.
	Predictions []int
	// Confusion counts labeled images by [actual][predicted] digit.
	Confusion [NumClasses][NumClasses]int
	PerClass  [NumClasses]ClassResult
	Total     int
	Correct   int
	Unlabeled int
}

// Accuracy returns Correct/Total.
func (e *Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

// Evaluate classifies every image and tallies the results. Unlabeled images
// count toward Total but are never correct.
func (c *Classifier) Evaluate(ctx context.Context, images []pixel.Image, opts EvaluateOptions) (*Evaluation, error) {
	if len(images) == 0 {
		return nil, ErrEmptyInput
	}

	predictions := make([]int, len(images))

	var progressMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range partition(len(images), opts.Workers) {
		r := r
		g.Go(func() error {
			for i := r.start; i < r.end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				predictions[i] = c.Classify(images[i])
			}

			if opts.Progress != nil {
				progressMu.Lock()
				opts.Progress(r.end - r.start)
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	eval := &Evaluation{Predictions: predictions, Total: len(images)}
	for i, img := range images {
		if !img.IsLabeled() {
			eval.Unlabeled++
			continue
		}

		actual, predicted := img.Label(), predictions[i]
		eval.Confusion[actual][predicted]++
		eval.PerClass[actual].Total++
		if actual == predicted {
			eval.PerClass[actual].Correct++
			eval.Correct++
		}
	}

	return eval, nil
}
