// Package config reads service configuration from the environment, optionally
// seeded from a .env file during development.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

type KafkaConfig struct {
	Broker  string
	Topic   string
	GroupID string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Config holds everything the ingestor needs.
type Config struct {
	Kafka          KafkaConfig
	Minio          MinioConfig
	IncidentBucket string
	StoreBackend   string
	DatabaseURL    string
}

// LoadEnv loads variables from a .env file if one exists.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Msg("No .env file found, assuming environment variables are set directly.")
	}
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Kafka: KafkaConfig{
			Broker:  os.Getenv("KAFKA_BROKER"),
			Topic:   os.Getenv("KAFKA_TOPIC"),
			GroupID: os.Getenv("KAFKA_GROUP_ID"),
		},
		Minio: MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		IncidentBucket: getEnv("INCIDENT_BUCKET", "incidents"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendS3)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	var errs []string

	required := []struct{ key, val string }{
		{"KAFKA_BROKER", c.Kafka.Broker},
		{"KAFKA_TOPIC", c.Kafka.Topic},
		{"KAFKA_GROUP_ID", c.Kafka.GroupID},
		{"MINIO_ENDPOINT", c.Minio.Endpoint},
		{"MINIO_ACCESS_KEY", c.Minio.AccessKey},
		{"MINIO_SECRET_KEY", c.Minio.SecretKey},
	}
	for _, r := range required {
		if r.val == "" {
			errs = append(errs, r.key+" is required")
		}
	}

	switch c.StoreBackend {
	case BackendS3:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		errs = append(errs, "STORE_BACKEND must be s3 or postgres, got "+c.StoreBackend)
	}

	if len(errs) > 0 {
		return eris.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
