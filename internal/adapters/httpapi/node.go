package httpapi

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/adapters/config"
	"go.trai.ch/artisan/internal/adapters/logger"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"go.trai.ch/artisan/internal/engine/orchestrator" //nolint:depguard // Wired in adapter wiring
)

// NodeID is the unique identifier for the HTTP server Graft node.
const NodeID graft.ID = "adapter.httpapi"

func init() {
	graft.Register(graft.Node[*Server]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, orchestrator.NodeID},
		Run: func(ctx context.Context) (*Server, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}

			var opts []Option
			if cfg.Storage.Backend == domain.StorageBackendLocal {
				opts = append(opts, WithArtifactDir(cfg.Storage.LocalDir))
			}
			return New(orch, log, opts...), nil
		},
	})
}
