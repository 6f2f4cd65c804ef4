// This file implements the Tencent Cloud Object Storage (COS) backend.
//
// Credentials come from TCOS_SECRETID / TCOS_SECRETKEY or the corresponding
// options. The bucket locator is the bucket URL, e.g.
// https://bucket.cos.region.myqcloud.com.
package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/models"
)

const defaultCOSTimeout = 60 * time.Second

// COSStore persists artifacts to a Tencent COS bucket.
type COSStore struct {
	client      *cos.Client
	contentType string
}

// NewCOSStore creates a COS-backed object store for the given bucket URL.
func NewCOSStore(bucketURL string, opts ...Option) (*COSStore, error) {
	cfg := Opts{
		Timeout:   defaultCOSTimeout,
		SecretID:  os.Getenv("TCOS_SECRETID"),
		SecretKey: os.Getenv("TCOS_SECRETKEY"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, err
	}
	b := &cos.BaseURL{BucketURL: u}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &cos.AuthorizationTransport{
				SecretID:  cfg.SecretID,
				SecretKey: cfg.SecretKey,
			},
		}
	}

	contentType := cfg.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	slog.Debug("NewCOSStore: COS object store configured", "bucket_url", bucketURL)
	return &COSStore{client: cos.NewClient(b, httpClient), contentType: contentType}, nil
}

// Put writes data under key in the configured bucket.
func (s *COSStore) Put(ctx context.Context, key string, data []byte) error {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: s.contentType,
		},
	}
	_, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), opt)
	if err != nil {
		slog.Error("COSStore.Put: object write failed", "error", err, "key", key)
		return models.NewPipelineError(models.ErrorKindStorageUnavailable, "object store write failed", err)
	}
	slog.Debug("COSStore.Put: object written", "key", key, "size", len(data))
	return nil
}

// Get returns the bytes stored under key, or ErrNotFound.
func (s *COSStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		slog.Error("COSStore.Get: object read failed", "error", err, "key", key)
		return nil, models.NewPipelineError(models.ErrorKindStorageUnavailable, "object store read failed", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
