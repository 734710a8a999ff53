// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cuv/internal/adapters/cache"
	_ "go.trai.ch/cuv/internal/adapters/config"
	_ "go.trai.ch/cuv/internal/adapters/fs"
	_ "go.trai.ch/cuv/internal/adapters/logger"
	_ "go.trai.ch/cuv/internal/adapters/ninja"
	_ "go.trai.ch/cuv/internal/adapters/scan"
	_ "go.trai.ch/cuv/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/cuv/internal/app"
	_ "go.trai.ch/cuv/internal/engine/planner"
	_ "go.trai.ch/cuv/internal/engine/scan"
)
