package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"incidentmap/internal/config"
	"incidentmap/internal/ingest"
	"incidentmap/internal/models"
	"incidentmap/internal/service"
	"incidentmap/internal/storage"
	"incidentmap/pkg/graceful"
	"incidentmap/pkg/kafkaclient"
	"incidentmap/pkg/logger"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	opts.Logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	s3Store, err := storage.NewS3Store(cfg.Minio, cfg.IncidentBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object store")
	}

	store, closeStore, err := openStore(ctx, cfg, s3Store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open incident store")
	}
	defer closeStore()

	log.Info().
		Str("broker", cfg.Kafka.Broker).
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Str("store", cfg.StoreBackend).
		Msg("Connecting to Kafka")

	consumer := kafkaclient.NewKafkaConsumer(cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Kafka.Broker)
	consumer.StartConsuming(ctx)

	iterator := service.NewIterator[*models.Incident](consumer, s3Store.LoadRaw)
	stats := ingest.Run(ctx, iterator.Objects(ctx), store)

	consumer.Stop()
	log.Info().
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Ingestor stopped")
}

// openStore returns the configured incident store and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config, s3Store *storage.S3Store) (storage.IncidentStore, func(), error) {
	if cfg.StoreBackend != config.BackendPostgres {
		if err := s3Store.EnsureBucket(ctx, ""); err != nil {
			return nil, nil, err
		}
		return s3Store, func() {}, nil
	}

	pool, err := storage.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := storage.NewPostgresStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}
