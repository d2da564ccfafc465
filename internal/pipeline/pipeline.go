package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Stats counts how items left the pipeline.
type Stats struct {
	Processed int
	Skipped   int
	Failed    int
}

// Pipeline applies its stages to every item it receives.
type Pipeline[T any] struct {
	stages []Stage[T]
}

// NewPipeline constructs a Pipeline from the provided stages, applied in order.
func NewPipeline[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Process consumes items until in is closed or ctx is done. Step errors are
// logged and do not stop the remaining stages; ErrSkip does.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) Stats {
	var stats Stats
	for {
		select {
		case <-ctx.Done():
			return stats
		case item, ok := <-in:
			if !ok {
				return stats
			}
			switch p.run(ctx, item) {
			case outcomeSkipped:
				stats.Skipped++
			case outcomeFailed:
				stats.Failed++
			default:
				stats.Processed++
			}
		}
	}
}

type outcome int

const (
	outcomeDone outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (p *Pipeline[T]) run(ctx context.Context, item *T) outcome {
	result := outcomeDone
	for _, stage := range p.stages {
		errs := make([]error, len(stage.steps))
		var wg sync.WaitGroup
		for i, step := range stage.steps {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = step(ctx, item)
			}()
		}
		// stage barrier
		wg.Wait()

		skip := false
		for _, err := range errs {
			switch {
			case err == nil:
			case errors.Is(err, ErrSkip):
				skip = true
			default:
				log.Error().Err(err).Str("stage", stage.name).Msg("Step failed")
				result = outcomeFailed
			}
		}
		if skip {
			if result == outcomeFailed {
				return outcomeFailed
			}
			return outcomeSkipped
		}
	}
	return result
}
