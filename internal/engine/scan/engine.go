// Package scan implements the parallel dependency scanning engine.
package scan

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
)

// Engine fans translation units out to scanner workers and aggregates the
// resulting dependency records.
//
// A unit whose content and command fingerprints match the cache snapshot is
// answered from the persisted scan result without spawning the scanner. Worker
// failures do not cancel scans already in flight; they are drained and the
// full error set is reported at the end.
type Engine struct {
	scanner ports.DependencyScanner
	hasher  ports.Hasher
}

// NewEngine creates a scan Engine.
func NewEngine(scanner ports.DependencyScanner, hasher ports.Hasher) *Engine {
	return &Engine{
		scanner: scanner,
		hasher:  hasher,
	}
}

// Scan fingerprints and scans all units with the given parallelism. The
// returned records are sorted by unit path so downstream stages see a
// deterministic order regardless of worker completion order.
//
// Unit fingerprints are filled in on the returned records, not on the input
// slice.
func (e *Engine) Scan(
	ctx context.Context,
	root string,
	units []domain.TranslationUnit,
	snapshot *domain.CacheManifest,
	parallelism int,
	telemetry ports.Telemetry,
) ([]*domain.DependencyRecord, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	records := make([]*domain.DependencyRecord, len(units))

	var (
		mu     sync.Mutex
		errs   []error
		failed atomic.Bool
	)

	var g errgroup.Group
	g.SetLimit(parallelism)

	for i, unit := range units {
		// After the first failure no new work starts, but units already
		// running are left to finish so every error surfaces in one run.
		if failed.Load() {
			break
		}

		g.Go(func() error {
			if failed.Load() || ctx.Err() != nil {
				return nil
			}

			rec, err := e.scanUnit(ctx, root, unit, snapshot, telemetry)
			if err != nil {
				failed.Store(true)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}

			records[i] = rec
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	out := make([]*domain.DependencyRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b *domain.DependencyRecord) int {
		return strings.Compare(a.Unit.Path.String(), b.Unit.Path.String())
	})

	return out, nil
}

// scanUnit fingerprints one unit and either replays the cached scan result or
// invokes the scanner.
func (e *Engine) scanUnit(
	ctx context.Context,
	root string,
	unit domain.TranslationUnit,
	snapshot *domain.CacheManifest,
	telemetry ports.Telemetry,
) (*domain.DependencyRecord, error) {
	ctx, vtx := telemetry.Record(ctx, "scan "+unit.Path.String())

	contentHash, err := e.hasher.HashFile(filepath.Join(root, unit.Path.String()))
	if err != nil {
		vtx.Complete(err)
		return nil, err
	}
	unit.ContentHash = contentHash
	unit.CommandHash = e.hasher.HashStrings(unit.Flags...)

	if entry, ok := snapshot.Lookup(unit.Path.String()); ok &&
		entry.ContentHash == unit.ContentHash &&
		entry.CommandHash == unit.CommandHash {
		if rec, ok := domain.RecordFromCachedScan(unit, entry); ok {
			vtx.Cached()
			vtx.Complete(nil)
			return rec, nil
		}
	}

	rec, err := e.scanner.Scan(ctx, &unit)
	vtx.Complete(err)
	if err != nil {
		return nil, err
	}

	return rec, nil
}
