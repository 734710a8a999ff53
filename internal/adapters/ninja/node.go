package ninja

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cuv/internal/core/ports"
)

const (
	// EmitterNodeID is the unique identifier for the build-file emitter node.
	EmitterNodeID graft.ID = "adapter.ninja.emitter"
	// RunnerNodeID is the unique identifier for the build runner node.
	RunnerNodeID graft.ID = "adapter.ninja.runner"
)

func init() {
	graft.Register(graft.Node[ports.BuildFileEmitter]{
		ID:        EmitterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildFileEmitter, error) {
			return NewEmitter(), nil
		},
	})

	graft.Register(graft.Node[ports.BuildRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildRunner, error) {
			return NewRunner(), nil
		},
	})
}
