package ledger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/adapters/config"
	"go.trai.ch/artisan/internal/adapters/logger"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
)

// NodeID is the unique identifier for the history ledger Graft node.
const NodeID graft.ID = "adapter.history_ledger"

func init() {
	graft.Register(graft.Node[ports.HistoryLedger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.HistoryLedger, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.History.Path, cfg.History.Capacity, log), nil
		},
	})
}
