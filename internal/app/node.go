package app

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/artisan/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/adapters/httpapi"            //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/adapters/ledger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"go.trai.ch/artisan/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
	// EngineNodeID is the unique identifier for the credentialed part of the graph.
	// It is resolved on first use rather than at start-up.
	EngineNodeID graft.ID = "app.engine"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Config *domain.Config
}

type engine struct {
	workflow Workflow
	handler  http.Handler
}

func init() {
	graft.Register(graft.Node[*engine]{
		ID:        EngineNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			orchestrator.NodeID,
			httpapi.NodeID,
		},
		Run: func(ctx context.Context) (*engine, error) {
			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}

			srv, err := graft.Dep[*httpapi.Server](ctx)
			if err != nil {
				return nil, err
			}

			return &engine{workflow: orch, handler: srv.Handler()}, nil
		},
	})

	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			progrock.NodeID,
			ledger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
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

			hist, err := graft.Dep[ports.HistoryLedger](ctx)
			if err != nil {
				return nil, err
			}

			return New(hist, log, cfg.Server.Addr, connectEngine).WithTelemetry(tel), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func connectEngine(ctx context.Context) (Workflow, http.Handler, error) {
	e, _, err := graft.ExecuteFor[*engine](ctx)
	if err != nil {
		return nil, nil, err
	}
	return e.workflow, e.handler, nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
		Config: cfg,
	}, nil
}
