package artifact

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
)

const cosTimeout = 60 * time.Second

// COSStore implements ports.ArtifactStore on a Tencent Cloud Object Storage bucket.
type COSStore struct {
	client *cos.Client
	domain string
}

// NewCOSStore creates a store for the bucket described by cfg.
func NewCOSStore(cfg domain.StorageConfig) (*COSStore, error) {
	bucketURL, err := cos.NewBucketURL(cfg.Bucket, cfg.Region, true)
	if err != nil {
		return nil, domain.WithKind(domain.ErrConfiguration, zerr.With(zerr.Wrap(err, "invalid cos bucket"), "bucket", cfg.Bucket))
	}
	return NewCOSStoreWithURL(bucketURL, cfg), nil
}

// NewCOSStoreWithURL creates a store against an explicit bucket URL.
func NewCOSStoreWithURL(bucketURL *url.URL, cfg domain.StorageConfig) *COSStore {
	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Timeout: cosTimeout,
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})
	return &COSStore{client: client, domain: cfg.Domain}
}

// Put uploads data under key and returns its public URL on the configured domain.
func (s *COSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		},
	}

	if _, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), opt); err != nil {
		detail := zerr.With(zerr.Wrap(err, "cos put failed"), "key", key)
		var cosErr *cos.ErrorResponse
		if errors.As(err, &cosErr) && cosErr.Response != nil {
			detail = zerr.With(detail, "status_code", cosErr.Response.StatusCode)
		}
		return "", domain.WithKind(domain.ErrUpload, detail)
	}

	return PublicURL(s.domain, key), nil
}
