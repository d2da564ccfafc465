package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch        chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func newFakeSource(values ...string) *fakeSource {
	ch := make(chan kafka.Message, len(values))
	for i, v := range values {
		ch <- kafka.Message{Offset: int64(i), Value: []byte(v)}
	}
	close(ch)
	return &fakeSource{ch: ch}
}

func (f *fakeSource) Messages() <-chan kafka.Message { return f.ch }

func (f *fakeSource) CommitOffset(_ context.Context, msg kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msg.Offset)
	return nil
}

func event(name, bucket, key string) string {
	return fmt.Sprintf(`{"Records":[{"eventName":%q,"s3":{"bucket":{"name":%q},"object":{"key":%q}}}]}`, name, bucket, key)
}

func TestIterator_Objects(t *testing.T) {
	src := newFakeSource(
		event("s3:ObjectCreated:Put", "raw", "erp%2Foutage+1.json"),
		"not json",
		event("s3:ObjectRemoved:Delete", "raw", "erp/gone.json"),
		event("s3:ObjectCreated:Put", "raw", "broken.json"),
		event("s3:ObjectCreated:Put", "raw", "toplo/2.json"),
	)
	loader := func(_ context.Context, bucket, key string) (string, error) {
		if key == "broken.json" {
			return "", errors.New("no such object")
		}
		return bucket + ":" + key, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got []string
	for obj := range NewIterator[string](src, loader).Objects(ctx) {
		got = append(got, obj.Data)
	}

	assert.Equal(t, []string{"raw:erp/outage 1.json", "raw:toplo/2.json"}, got)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, src.committed)
}

func TestIterator_StopsOnCancel(t *testing.T) {
	src := newFakeSource(
		event("s3:ObjectCreated:Put", "raw", "a.json"),
		event("s3:ObjectCreated:Put", "raw", "b.json"),
	)
	loader := func(_ context.Context, _, key string) (string, error) { return key, nil }

	ctx, cancel := context.WithCancel(context.Background())
	out := NewIterator[string](src, loader).Objects(ctx)

	first := <-out
	assert.Equal(t, "a.json", first.Data)
	assert.Equal(t, "raw", first.Bucket)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			// the second object may already be in flight; the channel must close right after
			_, ok = <-out
		}
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("iterator did not stop after cancellation")
	}
}
