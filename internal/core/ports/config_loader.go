package ports

import "go.trai.ch/cuv/internal/core/domain"

// ProjectLoader loads the project description from disk.
//
// The loader owns configuration parsing and source-glob expansion; the core
// only ever sees resolved targets with concrete file paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProjectLoader interface {
	// Load reads the project file at the given path and returns the
	// resolved project.
	Load(path string) (*domain.Project, error)
}
