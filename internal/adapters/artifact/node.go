package artifact

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/adapters/config"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
)

// NodeID is the unique identifier for the artifact store Graft node.
const NodeID graft.ID = "adapter.artifact_store"

func init() {
	graft.Register(graft.Node[ports.ArtifactStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Storage)
		},
	})
}

// New selects the backend named by cfg.Backend.
func New(cfg domain.StorageConfig) (ports.ArtifactStore, error) {
	if err := (&domain.Config{Storage: cfg}).ValidateStorage(); err != nil {
		return nil, err
	}
	if cfg.Backend == domain.StorageBackendLocal {
		return NewLocalStore(cfg.LocalDir, cfg.Domain), nil
	}
	return NewCOSStore(cfg)
}
