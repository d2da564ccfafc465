// Package pipeline runs a fixed sequence of stages over items read from a
// channel. Steps inside a stage run in parallel, stages run one after another.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrSkip is returned by a step to stop processing the current item. Later
// stages are not run and the item counts as skipped, not failed.
var ErrSkip = eris.New("pipeline: skip item")

// Step performs one operation on an item. Steps of the same stage run
// concurrently on the same item and must not write the same fields.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that are safe to run in parallel for a single item.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

// NewStage constructs a named Stage from the provided steps.
func NewStage[T any](name string, steps ...Step[T]) Stage[T] {
	return Stage[T]{name: name, steps: steps}
}
