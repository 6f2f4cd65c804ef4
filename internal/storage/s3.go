// This file implements the S3 object store backend using the AWS SDK v2.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

// s3API is the narrow slice of the S3 client used by the store, decoupled
// from the SDK so tests can substitute it.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store persists artifacts to an Amazon S3 (or S3-compatible) bucket.
type S3Store struct {
	client      s3API
	bucket      string
	contentType string
}

// NewS3Store creates an S3-backed object store for the given bucket name.
// Credentials come from the default AWS credential chain; static credentials
// can be injected for S3-compatible endpoints via options.
func NewS3Store(bucket string, opts ...Option) (*S3Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if bucket == "" {
		return nil, ErrBucketNotSet
	}

	var awsOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		awsOpts = append(awsOpts, config.WithRegion(cfg.Region))
	}
	if cfg.SecretID != "" && cfg.SecretKey != "" {
		awsOpts = append(awsOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SecretID, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing for S3-compatible endpoints.
			o.UsePathStyle = true
		}
	})

	contentType := cfg.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	slog.Debug("NewS3Store: S3 object store configured", "bucket", bucket, "region", cfg.Region, "custom_endpoint", cfg.Endpoint != "")
	return &S3Store{client: client, bucket: bucket, contentType: contentType}, nil
}

// Put writes data under key in the configured bucket.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(s.contentType),
	})
	if err != nil {
		slog.Error("S3Store.Put: object write failed", "error", err, "bucket", s.bucket, "key", key)
		return models.NewPipelineError(models.ErrorKindStorageUnavailable, "object store write failed", err)
	}
	slog.Debug("S3Store.Put: object written", "bucket", s.bucket, "key", key, "size", len(data))
	return nil
}

// Get returns the bytes stored under key, or ErrNotFound.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		slog.Error("S3Store.Get: object read failed", "error", err, "bucket", s.bucket, "key", key)
		return nil, models.NewPipelineError(models.ErrorKindStorageUnavailable, "object store read failed", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}
