package ports

import "go.trai.ch/cuv/internal/core/domain"

// FingerprintStore persists cache entries across invocations.
//
// The snapshot is loaded once per invocation and read concurrently without
// locking during the scan phase; Commit is the single write, performed only
// after the external executor reports overall success.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type FingerprintStore interface {
	// Snapshot returns the immutable manifest loaded at invocation start.
	// A missing or corrupt store yields an empty manifest, never an error.
	Snapshot() *domain.CacheManifest

	// Commit atomically replaces the persisted manifest with the given
	// entries. A failed or partial build must not call Commit.
	Commit(entries []domain.CacheEntry) error
}

// StoreFactory creates an invocation-scoped fingerprint store backed by the
// manifest at the given path. The cache has no process-wide lifetime: each
// invocation loads its own snapshot and commits at most once.
type StoreFactory func(path string, logger Logger) FingerprintStore
