package ports

import (
	"context"

	"go.trai.ch/artisan/internal/core/domain"
)

// Generator is the task lifecycle as seen by the outer surfaces (HTTP and CLI).
//
//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Submit starts a generation task and returns its remote task id.
	Submit(ctx context.Context, prompt string, imageURLs []string) (string, error)

	// Poll queries the state of a task once.
	Poll(ctx context.Context, taskID string) (*domain.TaskStatus, error)

	// UploadImage stores a base64 image data URI and returns its public URL.
	UploadImage(ctx context.Context, dataURI string) (string, error)

	// History returns every recorded task, newest first.
	History(ctx context.Context) []domain.TaskRecord

	// Record returns the recorded task with the given id.
	Record(ctx context.Context, taskID string) (domain.TaskRecord, bool)
}
