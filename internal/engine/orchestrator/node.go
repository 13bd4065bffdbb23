package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/adapters/artifact"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/artisan/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/artisan/internal/adapters/ledger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/artisan/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/artisan/internal/adapters/remote"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/artisan/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"go.trai.ch/artisan/internal/engine/signer"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			signer.NodeID,
			remote.NodeID,
			artifact.NodeID,
			ledger.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			sig, err := graft.Dep[ports.Signer](ctx)
			if err != nil {
				return nil, err
			}

			transport, err := graft.Dep[ports.RemoteTransport](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}

			hist, err := graft.Dep[ports.HistoryLedger](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, sig, transport, store, hist, log, WithTelemetry(tel))
		},
	})
}
