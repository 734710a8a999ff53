package ports

import (
	"context"

	"go.trai.ch/cuv/internal/core/domain"
)

// BuildRunner invokes the external build executor on an emitted build file.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type BuildRunner interface {
	// Run executes the build in the layout's build directory and returns an
	// error if the executor reports failure. Output is streamed to the
	// given vertex.
	Run(ctx context.Context, layout domain.Layout, jobs int, vtx Vertex) error
}
