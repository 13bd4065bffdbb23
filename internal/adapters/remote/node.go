package remote

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/adapters/config"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
)

// NodeID is the unique identifier for the remote transport Graft node.
const NodeID graft.ID = "adapter.remote"

func init() {
	graft.Register(graft.Node[ports.RemoteTransport]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.RemoteTransport, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg.Remote.Endpoint, cfg.Remote.Timeout)
		},
	})
}
