package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cuv/internal/core/ports"
)

// NodeID is the unique identifier for the fingerprint store factory node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.StoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StoreFactory, error) {
			return func(path string, logger ports.Logger) ports.FingerprintStore {
				return NewStore(path, logger)
			}, nil
		},
	})
}
