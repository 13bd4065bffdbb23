package signer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/core/ports"
)

// NodeID is the unique identifier for the signer Graft node.
const NodeID graft.ID = "engine.signer"

func init() {
	graft.Register(graft.Node[ports.Signer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Signer, error) {
			return New(), nil
		},
	})
}
