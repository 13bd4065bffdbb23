// Package ports defines the core interfaces for the application.
package ports

import (
	"time"

	"go.trai.ch/artisan/internal/core/domain"
)

// Signer computes the Authorization header value of an outbound remote API call.
//
//go:generate go run go.uber.org/mock/mockgen -source=signer.go -destination=mocks/mock_signer.go -package=mocks
type Signer interface {
	// Sign returns the Authorization value for sc at timestamp t.
	// Identical inputs always yield identical output.
	// It fails with domain.ErrConfiguration when credentials are missing.
	Sign(sc domain.SigningContext, t time.Time) (string, error)
}
