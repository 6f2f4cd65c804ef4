// Package storage provides object store backends for persisting generated posts.
//
// Artifacts are write-once: every invocation derives a fresh key, and no
// update or delete path exists. The backend is selected from the bucket
// locator: "s3://name" or a bare bucket name selects S3, an HTTP(S) bucket
// URL selects Tencent COS, and "mem://" selects the in-memory store used for
// local development and tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Bucket locator types returned by DetectBucketType.
const (
	BucketTypeS3     = "s3"
	BucketTypeCOS    = "cos"
	BucketTypeMemory = "memory"
)

// DefaultContentType is the content type written with every artifact.
const DefaultContentType = "text/markdown; charset=utf-8"

// Error variables for better error handling and testability
var (
	ErrNotFound     = errors.New("object not found")
	ErrBucketNotSet = errors.New("object store bucket not set")
)

// ObjectStore is the persistence capability consumed by the generation
// handler: write bytes under a key, read them back for the preview surface.
type ObjectStore interface {
	// Put writes data under key. Keys are unique per invocation, so a
	// successful Put never overwrites an earlier artifact.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Opts holds configuration options for object store backends.
type Opts struct {
	Bucket      string        // bucket locator (s3://name, COS URL, mem://)
	Region      string        // AWS region override for the S3 backend
	Endpoint    string        // custom S3-compatible endpoint
	SecretID    string        // COS secret id (falls back to TCOS_SECRETID)
	SecretKey   string        // COS secret key (falls back to TCOS_SECRETKEY)
	Timeout     time.Duration // HTTP timeout for the COS backend
	ContentType string        // content type written with artifacts
	HTTPClient  *http.Client  // custom HTTP client for the COS backend
}

// Option defines a configuration option for object store backends.
type Option func(*Opts)

// WithBucket sets the bucket locator.
func WithBucket(bucket string) Option {
	return func(o *Opts) {
		o.Bucket = bucket
	}
}

// WithRegion sets the AWS region for the S3 backend.
func WithRegion(region string) Option {
	return func(o *Opts) {
		o.Region = region
	}
}

// WithEndpoint points the S3 backend at an S3-compatible endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *Opts) {
		o.Endpoint = endpoint
	}
}

// WithSecretID sets the COS secret id.
func WithSecretID(id string) Option {
	return func(o *Opts) {
		o.SecretID = id
	}
}

// WithSecretKey sets the COS secret key.
func WithSecretKey(key string) Option {
	return func(o *Opts) {
		o.SecretKey = key
	}
}

// WithTimeout sets the HTTP timeout for the COS backend.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.Timeout = d
	}
}

// WithContentType overrides the content type written with artifacts.
func WithContentType(ct string) Option {
	return func(o *Opts) {
		o.ContentType = ct
	}
}

// WithHTTPClient sets a custom HTTP client for the COS backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) {
		o.HTTPClient = c
	}
}

// DetectBucketType classifies a bucket locator so the entrypoint can report
// which backend it is about to use.
func DetectBucketType(locator string) string {
	switch {
	case locator == "" || strings.HasPrefix(locator, "mem://"):
		return BucketTypeMemory
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return BucketTypeCOS
	default:
		// "s3://name" or a bare bucket name.
		return BucketTypeS3
	}
}

// Open creates the object store selected by the configured bucket locator.
// An empty bucket is a startup error rather than a per-request surprise.
func Open(opts ...Option) (ObjectStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case cfg.Bucket == "":
		return nil, ErrBucketNotSet
	case strings.HasPrefix(cfg.Bucket, "mem://"):
		return NewMemoryStore(), nil
	case strings.HasPrefix(cfg.Bucket, "http://"), strings.HasPrefix(cfg.Bucket, "https://"):
		return NewCOSStore(cfg.Bucket, opts...)
	default:
		bucket := strings.TrimPrefix(cfg.Bucket, "s3://")
		if bucket == "" {
			return nil, fmt.Errorf("invalid s3 bucket locator %q", cfg.Bucket)
		}
		return NewS3Store(bucket, opts...)
	}
}
