package ports

import "go.trai.ch/artisan/internal/core/domain"

// ConfigLoader defines the interface for loading the process configuration.
type ConfigLoader interface {
	// Load assembles the configuration from defaults, files and the environment.
	Load() (*domain.Config, error)
}
