package scan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cuv/internal/adapters/fs"
	adapterscan "go.trai.ch/cuv/internal/adapters/scan"
	"go.trai.ch/cuv/internal/core/ports"
)

// NodeID is the unique identifier for the scan engine node.
const NodeID graft.ID = "engine.scan"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{adapterscan.NodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			scanner, err := graft.Dep[ports.DependencyScanner](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(scanner, hasher), nil
		},
	})
}
