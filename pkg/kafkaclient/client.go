// Package kafkaclient wraps a kafka-go reader in a channel based consumer with
// manual offset commits.
package kafkaclient

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// KafkaReader defines the interface for a Kafka message reader.
// This allows for easy mocking in unit tests.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads messages in a background loop and exposes them on a
// channel. It is safe to call Stop from any goroutine once.
type KafkaConsumer struct {
	reader KafkaReader
	// closed to ask the loop to exit
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	// unbuffered; the loop blocks until the consumer takes the message
	messageChan chan kafka.Message
	retryDelay  time.Duration
}

// NewKafkaConsumer creates a consumer for topic within groupID.
func NewKafkaConsumer(topic, groupID, broker string) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// offsets are committed explicitly through CommitOffset
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader)
}

func newConsumer(reader KafkaReader) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		retryDelay:  time.Second,
	}
}

// Messages returns the channel of consumed messages. It is closed when the
// consumer loop exits.
func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

// CommitOffset acknowledges msg.
func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	log.Debug().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("Committing offset")
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the consumption loop in a separate goroutine.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		log.Info().Msg("Starting Kafka consumer loop")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Context canceled, stopping consumer loop")
				return
			case <-kc.doneChan:
				log.Info().Msg("Shutdown signal received, stopping consumer loop")
				return
			default:
			}

			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if isClosed(err) || ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("Error reading message")
				select {
				case <-time.After(kc.retryDelay):
				case <-ctx.Done():
					return
				case <-kc.doneChan:
					return
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
				log.Debug().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Message received")
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			}
		}
	}()
}

// Stop ends the loop and closes the reader.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		log.Info().Msg("Stopping Kafka consumer")
		close(kc.doneChan)
		kc.wg.Wait()
		if err := kc.reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader")
		}
	})
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || strings.Contains(err.Error(), "reader closed")
}
