package service

import (
	"context"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// MessageIterator is the message source consumed by Iterator. The channel is
// closed by the implementation when the source is stopped or exhausted.
type MessageIterator interface {
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that a message has been fully handled.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// LoaderFunc loads and decodes the object a notification points at.
// Implementations must be read-only and honor ctx.
type LoaderFunc[T any] func(ctx context.Context, bucket, key string) (T, error)

// FetchedObject pairs a loaded object with the notification that announced it.
type FetchedObject[T any] struct {
	Data   T
	Bucket string
	Key    string
	Event  notification.Event
}
