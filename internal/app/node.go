package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cuv/internal/adapters/cache"
	"go.trai.ch/cuv/internal/adapters/config"
	"go.trai.ch/cuv/internal/adapters/logger"
	"go.trai.ch/cuv/internal/adapters/ninja"
	"go.trai.ch/cuv/internal/adapters/telemetry/progrock"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/cuv/internal/engine/planner"
	"go.trai.ch/cuv/internal/engine/scan"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components handed to the
// CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scan.NodeID,
			planner.NodeID,
			ninja.EmitterNodeID,
			ninja.RunnerNodeID,
			cache.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ProjectLoader](ctx)
	if err != nil {
		return nil, err
	}

	scanEngine, err := graft.Dep[*scan.Engine](ctx)
	if err != nil {
		return nil, err
	}

	pl, err := graft.Dep[*planner.Planner](ctx)
	if err != nil {
		return nil, err
	}

	emitter, err := graft.Dep[ports.BuildFileEmitter](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.BuildRunner](ctx)
	if err != nil {
		return nil, err
	}

	storeFactory, err := graft.Dep[ports.StoreFactory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, scanEngine, pl, emitter, runner, storeFactory, log, telemetry), nil
}
