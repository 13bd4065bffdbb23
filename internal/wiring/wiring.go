// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/artisan/internal/adapters/artifact"
	_ "go.trai.ch/artisan/internal/adapters/config"
	_ "go.trai.ch/artisan/internal/adapters/httpapi"
	_ "go.trai.ch/artisan/internal/adapters/ledger"
	_ "go.trai.ch/artisan/internal/adapters/logger"
	_ "go.trai.ch/artisan/internal/adapters/remote"
	_ "go.trai.ch/artisan/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/artisan/internal/app"
	_ "go.trai.ch/artisan/internal/engine/orchestrator"
	_ "go.trai.ch/artisan/internal/engine/signer"
)
