package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"incidentmap/internal/config"
	"incidentmap/internal/keys"
	"incidentmap/internal/models"
)

// objectAPI is the subset of *minio.Client the store relies on.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// openFunc returns a reader over an object's content.
type openFunc func(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)

// S3Store keeps incidents as JSON objects in an S3-compatible bucket.
type S3Store struct {
	client objectAPI
	open   openFunc
	bucket string
}

// NewS3Store connects to the MinIO endpoint and stores incidents in bucket.
func NewS3Store(cfg config.MinioConfig, bucket string) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to create MinIO client")
	}

	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", bucket).Msg("Connected to MinIO")
	return &S3Store{
		client: client,
		open: func(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
			return client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
		},
		bucket: bucket,
	}, nil
}

// EnsureBucket creates the incident bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context, location string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return eris.Wrapf(err, "error checking bucket %s", s.bucket)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return eris.Wrapf(err, "failed to create bucket %s", s.bucket)
	}
	return nil
}

// InsertIfAbsent stores the incident under its canonical key unless an object
// with that key already exists.
func (s *S3Store) InsertIfAbsent(ctx context.Context, incident *models.Incident) (bool, error) {
	objectKey := keys.Incident(*incident)

	_, err := s.client.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
	if err == nil {
		return false, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return false, eris.Wrapf(err, "failed to check for existing object %s", objectKey)
	}

	data, err := json.Marshal(incident.Stored())
	if err != nil {
		return false, eris.Wrap(err, "failed to marshal incident")
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return false, eris.Wrapf(err, "failed to store object %s", objectKey)
	}

	log.Debug().Str("key", objectKey).Str("bucket", s.bucket).Msg("Stored incident")
	return true, nil
}

// GetIncident reads a stored incident by object key.
func (s *S3Store) GetIncident(ctx context.Context, objectKey string) (*models.Incident, error) {
	return s.LoadRaw(ctx, s.bucket, objectKey)
}

// LoadRaw decodes the incident document at bucket/key. It is used both for
// stored incidents and for the raw candidates collectors upload.
func (s *S3Store) LoadRaw(ctx context.Context, bucket, objectKey string) (*models.Incident, error) {
	object, err := s.open(ctx, bucket, objectKey)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to get object %s/%s", bucket, objectKey)
	}
	defer object.Close()

	var incident models.Incident
	if err := json.NewDecoder(object).Decode(&incident); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, eris.Wrapf(ErrNotFound, "%s/%s", bucket, objectKey)
		}
		return nil, eris.Wrapf(err, "failed to decode object %s/%s", bucket, objectKey)
	}
	return &incident, nil
}
