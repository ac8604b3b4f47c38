package bayes

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Veraticus/digit-bayes/internal/pixel"
	"golang.org/x/sync/errgroup"
)

// TrainOptions tunes how a corpus is counted. Results do not depend on them.
type TrainOptions struct {
	// Progress, if set, receives the number of images counted as each chunk finishes.
	Progress func(n int)
	// Workers bounds the number of concurrent counting goroutines. Zero means runtime.NumCPU().
	Workers int
}

// counts accumulates the sufficient statistics for one slice of the corpus.
type counts struct {
	// filled is indexed by ((x*Size+y)*NumClasses+d).
	filled   []int
	perDigit [NumClasses]int
}

func newCounts() *counts {
	return &counts{filled: make([]int, numPixels*NumClasses)}
}

func (c *counts) add(img pixel.Image) {
	d := img.Label()
	c.perDigit[d]++
	for x := 0; x < pixel.Size; x++ {
		for y := 0; y < pixel.Size; y++ {
			if img.Shade(x, y) == pixel.Filled {
				c.filled[(x*pixel.Size+y)*NumClasses+d]++
			}
		}
	}
}

func (c *counts) merge(other *counts) {
	for d, n := range other.perDigit {
		c.perDigit[d] += n
	}
	for i, n := range other.filled {
		c.filled[i] += n
	}
}

// EstimateFromCorpus trains a model on images with default options.
func EstimateFromCorpus(images []pixel.Image) (*Model, error) {
	return Train(context.Background(), images, TrainOptions{})
}

// Train estimates priors and Laplace-smoothed conditionals from labeled images.
func Train(ctx context.Context, images []pixel.Image, opts TrainOptions) (*Model, error) {
	if len(images) == 0 {
		return nil, ErrEmptyCorpus
	}
	for i, img := range images {
		if !img.IsLabeled() {
			return nil, &pixel.CorpusError{Reason: fmt.Sprintf("training image %d has label %d", i+1, img.Label())}
		}
	}

	start := time.Now()
	total, err := countCorpus(ctx, images, opts)
	if err != nil {
		return nil, err
	}

	model := fromCounts(total, len(images))

	slog.Debug("Trained model",
		"images", len(images),
		"duration", time.Since(start))

	return model, nil
}

func countCorpus(ctx context.Context, images []pixel.Image, opts TrainOptions) (*counts, error) {
	ranges := partition(len(images), opts.Workers)
	partials := make([]*counts, len(ranges))

	var progressMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			c := newCounts()
			for j := r.start; j < r.end; j++ {
				if (j-r.start)%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				c.add(images[j])
			}
			partials[i] = c

			if opts.Progress != nil {
				progressMu.Lock()
				opts.Progress(r.end - r.start)
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("training cancelled: %w", err)
	}

	total := newCounts()
	for _, c := range partials {
		total.merge(c)
	}
	return total, nil
}

func fromCounts(c *counts, n int) *Model {
	m := &Model{conditionals: make([]float64, numConditionals)}

	for d := range m.priors {
		m.priors[d] = float64(c.perDigit[d]) / float64(n)
	}

	for p := 0; p < numPixels; p++ {
		for d := 0; d < NumClasses; d++ {
			denominator := float64(NumShades*LaplaceConstant + c.perDigit[d])
			filled := c.filled[p*NumClasses+d]
			light := c.perDigit[d] - filled

			base := (p*NumClasses + d) * NumShades
			m.conditionals[base+int(pixel.Light)] = float64(LaplaceConstant+light) / denominator
			m.conditionals[base+int(pixel.Filled)] = float64(LaplaceConstant+filled) / denominator
		}
	}

	return m
}

type span struct {
	start, end int
}

// partition splits n items into at most workers contiguous spans.
func partition(n, workers int) []span {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}

	size := (n + workers - 1) / workers
	spans := make([]span, 0, workers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}
