// Package service turns object store notifications delivered over Kafka into
// a stream of loaded documents.
package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Iterator reads MinIO bucket notifications from a MessageIterator, loads the
// created objects with a LoaderFunc and streams them. It does not manage the
// lifecycle of the message source.
type Iterator[T any] struct {
	msgIterator MessageIterator
	loader      LoaderFunc[T]
}

// NewIterator constructs an Iterator over the given source and loader.
func NewIterator[T any](iterator MessageIterator, loader LoaderFunc[T]) *Iterator[T] {
	return &Iterator[T]{
		msgIterator: iterator,
		loader:      loader,
	}
}

// Objects streams the loaded objects of every ObjectCreated record. A message
// is committed once all of its records have been handed off or skipped.
// Undecodable messages and failed loads are logged and skipped. The returned
// channel is closed when the source closes or ctx is done.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *FetchedObject[T] {
	out := make(chan *FetchedObject[T])
	go func() {
		defer close(out)

		for msg := range it.msgIterator.Messages() {
			if !it.handle(ctx, msg, out) {
				return
			}
			if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
				log.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit offset")
			}
		}
	}()
	return out
}

// handle emits the objects referenced by msg. It returns false when ctx was
// canceled before everything could be delivered.
func (it *Iterator[T]) handle(ctx context.Context, msg kafka.Message, out chan<- *FetchedObject[T]) bool {
	var info notification.Info
	if err := json.Unmarshal(msg.Value, &info); err != nil {
		log.Warn().Err(err).Int64("offset", msg.Offset).Msg("Skipping message that is not a bucket notification")
		return true
	}

	for _, event := range info.Records {
		if !strings.HasPrefix(event.EventName, "s3:ObjectCreated:") {
			continue
		}
		bucket := event.S3.Bucket.Name
		key, err := url.QueryUnescape(event.S3.Object.Key)
		if err != nil {
			log.Warn().Err(err).Str("key", event.S3.Object.Key).Msg("Skipping undecodable object key")
			continue
		}

		data, err := it.loader(ctx, bucket, key)
		if err != nil {
			log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Error loading object")
			continue
		}

		select {
		case out <- &FetchedObject[T]{Data: data, Bucket: bucket, Key: key, Event: event}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
