package ports

import "go.trai.ch/cuv/internal/core/domain"

// BuildFileEmitter serializes a build graph into the external executor's
// file syntax.
//
//go:generate go run go.uber.org/mock/mockgen -source=emitter.go -destination=mocks/mock_emitter.go -package=mocks
type BuildFileEmitter interface {
	// Emit writes the build file for the given project and graph. Identical
	// graphs must always produce byte-identical output text.
	Emit(project *domain.Project, layout domain.Layout, graph *domain.BuildGraph) error
}
