package ports

import "context"

// ArtifactStore externalizes binary results and returns durable public URLs.
//
//go:generate go run go.uber.org/mock/mockgen -source=artifact_store.go -destination=mocks/mock_artifact_store.go -package=mocks
type ArtifactStore interface {
	// Put stores data under key and returns its public URL.
	// Failures are reported as domain.ErrUpload.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
