package ports

import (
	"context"

	"go.trai.ch/artisan/internal/core/domain"
)

// RemoteTransport delivers signed requests to the remote generation API.
//
//go:generate go run go.uber.org/mock/mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks
type RemoteTransport interface {
	// Send performs req and returns the raw response, whatever its status code.
	// An error is returned only when no response was received.
	Send(ctx context.Context, req *domain.RemoteRequest) (*domain.RemoteResponse, error)

	// Host returns the host header value the transport targets.
	Host() string
}
