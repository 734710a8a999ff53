// Package cache implements the persisted fingerprint store.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.FingerprintStore = (*Store)(nil)

// Store implements ports.FingerprintStore using a flat YAML manifest.
//
// The manifest is loaded once at construction; corruption or absence degrades
// to an empty manifest, which forces a full rebuild. Commit is the single
// writer and runs only after the external executor confirmed success.
type Store struct {
	path     string
	logger   ports.Logger
	snapshot *domain.CacheManifest
}

// NewStore creates a Store backed by the manifest at the given path.
func NewStore(path string, logger ports.Logger) *Store {
	s := &Store{
		path:   filepath.Clean(path),
		logger: logger,
	}
	s.snapshot = s.load()
	return s
}

// load reads the manifest, tolerating every failure mode: a missing or
// unparsable store is an empty store, never an error.
func (s *Store) load() *domain.CacheManifest {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("fingerprint store unreadable, forcing full rebuild: " + err.Error())
		}
		return domain.NewCacheManifest()
	}

	var manifest domain.CacheManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		s.logger.Warn("fingerprint store corrupt, forcing full rebuild: " + err.Error())
		return domain.NewCacheManifest()
	}
	if manifest.Version != domain.ManifestVersion || manifest.Algorithm != domain.HashAlgorithm {
		s.logger.Warn("fingerprint store format mismatch, forcing full rebuild")
		return domain.NewCacheManifest()
	}
	if manifest.Entries == nil {
		manifest.Entries = make(map[string]domain.CacheEntry)
	}

	return &manifest
}

// Snapshot returns the manifest loaded at construction. Callers treat it as
// read-only, so concurrent scan workers need no locking.
func (s *Store) Snapshot() *domain.CacheManifest {
	return s.snapshot
}

// Commit replaces the persisted manifest with the given entries.
func (s *Store) Commit(entries []domain.CacheEntry) error {
	manifest := domain.NewCacheManifest()
	for _, e := range entries {
		sort.Strings(e.RequireBMIs)
		e.Algorithm = domain.HashAlgorithm
		manifest.Entries[e.Path] = e
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal fingerprint store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory for fingerprint store")
	}

	// Write-then-rename so a crash mid-write leaves the previous manifest
	// intact rather than a truncated file.
	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write fingerprint store")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.Wrap(err, "failed to replace fingerprint store")
	}

	return nil
}
