// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/cuv/internal/core/domain"
)

// DependencyScanner obtains per-file module dependency facts from an external
// source scanner.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type DependencyScanner interface {
	// Scan invokes the external scanner for a single translation unit and
	// parses its structured output into a dependency record.
	//
	// Failures carry one of the domain scan sentinels (tool not found,
	// malformed output, process failure) with the captured diagnostic
	// stream attached as metadata.
	Scan(ctx context.Context, unit *domain.TranslationUnit) (*domain.DependencyRecord, error)
}
