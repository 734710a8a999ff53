package scan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cuv/internal/core/ports"
)

// NodeID is the unique identifier for the dependency scanner node.
const NodeID graft.ID = "adapter.scan"

func init() {
	graft.Register(graft.Node[ports.DependencyScanner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DependencyScanner, error) {
			return NewScanner(), nil
		},
	})
}
