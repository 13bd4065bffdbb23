// Package orchestrator drives generation tasks through submit, poll and materialization.
package orchestrator

import (
	"github.com/jonboulle/clockwork"
	"go.trai.ch/artisan/internal/adapters/telemetry"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// Orchestrator implements the task lifecycle against the remote generation API.
// It is safe for concurrent use.
type Orchestrator struct {
	signer    ports.Signer
	transport ports.RemoteTransport
	store     ports.ArtifactStore
	ledger    ports.HistoryLedger
	logger    ports.Logger
	telemetry ports.Telemetry
	clock     clockwork.Clock

	remote  domain.RemoteConfig
	pollCfg domain.PollConfig

	polls singleflight.Group
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock, e.g. with clockwork.NewFakeClock in tests.
func WithClock(c clockwork.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithTelemetry records each wait as a vertex on t.
func WithTelemetry(t ports.Telemetry) Option {
	return func(o *Orchestrator) {
		o.telemetry = t
	}
}

// New creates an Orchestrator. It fails with domain.ErrConfiguration when the remote credentials
// are missing, before any network call is made.
func New(
	cfg *domain.Config,
	signer ports.Signer,
	transport ports.RemoteTransport,
	store ports.ArtifactStore,
	ledger ports.HistoryLedger,
	logger ports.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if err := cfg.ValidateRemote(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		signer:    signer,
		transport: transport,
		store:     store,
		ledger:    ledger,
		logger:    logger,
		telemetry: telemetry.NewNoOp(),
		clock:     clockwork.NewRealClock(),
		remote:    cfg.Remote,
		pollCfg:   cfg.Poll,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}
