package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

type testItem struct {
	mu      sync.Mutex
	Results map[string]any
}

func newTestItem() *testItem {
	return &testItem{Results: make(map[string]any)}
}

func stepSet(key string, val any) Step[testItem] {
	return func(_ context.Context, item *testItem) error {
		item.mu.Lock()
		defer item.mu.Unlock()
		item.Results[key] = val
		return nil
	}
}

func stepErr(err error) Step[testItem] {
	return func(context.Context, *testItem) error { return err }
}

func TestPipeline_Process(t *testing.T) {
	tests := []struct {
		name     string
		stages   []Stage[testItem]
		expected map[string]any
		stats    Stats
	}{
		{
			name:     "single step",
			stages:   []Stage[testItem]{NewStage("one", stepSet("foo", "bar"))},
			expected: map[string]any{"foo": "bar"},
			stats:    Stats{Processed: 1},
		},
		{
			name:     "two steps in one stage",
			stages:   []Stage[testItem]{NewStage("both", stepSet("x", 1), stepSet("y", 2))},
			expected: map[string]any{"x": 1, "y": 2},
			stats:    Stats{Processed: 1},
		},
		{
			name: "stages run in order",
			stages: []Stage[testItem]{
				NewStage("first", stepSet("a", "first")),
				NewStage("second", stepSet("b", "second")),
			},
			expected: map[string]any{"a": "first", "b": "second"},
			stats:    Stats{Processed: 1},
		},
		{
			name: "step error does not stop later stages",
			stages: []Stage[testItem]{
				NewStage("broken", stepErr(errors.New("mock step failed"))),
				NewStage("after", stepSet("ok", true)),
			},
			expected: map[string]any{"ok": true},
			stats:    Stats{Failed: 1},
		},
		{
			name: "skip stops later stages",
			stages: []Stage[testItem]{
				NewStage("gate", stepErr(eris.Wrap(ErrSkip, "no geometry")), stepSet("same", "stage")),
				NewStage("after", stepSet("never", true)),
			},
			expected: map[string]any{"same": "stage"},
			stats:    Stats{Skipped: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			item := newTestItem()
			in := make(chan *testItem, 1)
			in <- item
			close(in)

			stats := NewPipeline(tt.stages...).Process(ctx, in)

			assert.Equal(t, tt.expected, item.Results)
			assert.Equal(t, tt.stats, stats)
		})
	}
}

func TestPipeline_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan *testItem)
	done := make(chan Stats)

	go func() { done <- NewPipeline(NewStage("noop", stepSet("a", 1))).Process(ctx, in) }()

	in <- newTestItem()
	cancel()

	select {
	case stats := <-done:
		assert.Equal(t, 1, stats.Processed)
	case <-time.After(time.Second):
		t.Fatal("pipeline did not return after cancellation")
	}
}
