package scan_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cuv/internal/adapters/fs"
	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/cuv/internal/engine/scan"
)

type fakeScanner struct {
	mu      sync.Mutex
	scanned []string
	fail    map[string]error
}

func (s *fakeScanner) Scan(_ context.Context, unit *domain.TranslationUnit) (*domain.DependencyRecord, error) {
	s.mu.Lock()
	s.scanned = append(s.scanned, unit.Path.String())
	s.mu.Unlock()

	if err := s.fail[unit.Path.String()]; err != nil {
		return nil, err
	}
	return &domain.DependencyRecord{Unit: *unit}, nil
}

type countingTelemetry struct {
	mu     sync.Mutex
	cached []string
}

func (t *countingTelemetry) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	return ctx, &countingVertex{telemetry: t, name: name}
}

func (t *countingTelemetry) Close() error { return nil }

type countingVertex struct {
	telemetry *countingTelemetry
	name      string
}

func (v *countingVertex) Stdout() io.Writer { return io.Discard }
func (v *countingVertex) Stderr() io.Writer { return io.Discard }
func (v *countingVertex) Complete(error)    {}

func (v *countingVertex) Cached() {
	v.telemetry.mu.Lock()
	v.telemetry.cached = append(v.telemetry.cached, v.name)
	v.telemetry.mu.Unlock()
}

func writeUnits(t *testing.T, names ...string) (string, []domain.TranslationUnit) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))

	units := make([]domain.TranslationUnit, len(names))
	for i, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("// "+name+"\n"), 0o600))
		units[i] = domain.TranslationUnit{
			Path:  domain.NewInternedString(name),
			Flags: []string{"-std=c++20", name},
		}
	}
	return root, units
}

func TestEngine_ScansAllUnitsSorted(t *testing.T) {
	t.Parallel()

	root, units := writeUnits(t, "src/c.cpp", "src/a.cpp", "src/b.cpp")
	scanner := &fakeScanner{}
	engine := scan.NewEngine(scanner, fs.NewHasher())

	records, err := engine.Scan(context.Background(), root, units, domain.NewCacheManifest(), 2, &countingTelemetry{})
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "src/a.cpp", records[0].Unit.Path.String())
	assert.Equal(t, "src/b.cpp", records[1].Unit.Path.String())
	assert.Equal(t, "src/c.cpp", records[2].Unit.Path.String())

	for _, rec := range records {
		assert.NotEmpty(t, rec.Unit.ContentHash, "fingerprints are filled in during scanning")
		assert.NotEmpty(t, rec.Unit.CommandHash)
	}
}

func TestEngine_SkipsUnchangedUnits(t *testing.T) {
	t.Parallel()

	root, units := writeUnits(t, "src/m.cppm")
	hasher := fs.NewHasher()

	contentHash, err := hasher.HashFile(filepath.Join(root, "src/m.cppm"))
	require.NoError(t, err)

	snapshot := domain.NewCacheManifest()
	snapshot.Entries["src/m.cppm"] = domain.CacheEntry{
		Path:        "src/m.cppm",
		ContentHash: contentHash,
		CommandHash: hasher.HashStrings(units[0].Flags...),
		Scan: &domain.CachedScan{
			Provides: &domain.CachedProvides{Name: "m", Interface: true},
		},
		Outcome: domain.OutcomeSuccess,
	}

	scanner := &fakeScanner{}
	telemetry := &countingTelemetry{}
	records, err := scan.NewEngine(scanner, hasher).Scan(context.Background(), root, units, snapshot, 1, telemetry)
	require.NoError(t, err)

	assert.Empty(t, scanner.scanned, "an unchanged unit must not be re-scanned")
	assert.Len(t, telemetry.cached, 1)
	require.Len(t, records, 1)
	require.True(t, records[0].ProvidesModule())
	assert.Equal(t, "m", records[0].Module.Provides.String())
}

func TestEngine_RescanWhenCommandChanged(t *testing.T) {
	t.Parallel()

	root, units := writeUnits(t, "src/m.cppm")
	hasher := fs.NewHasher()

	contentHash, err := hasher.HashFile(filepath.Join(root, "src/m.cppm"))
	require.NoError(t, err)

	snapshot := domain.NewCacheManifest()
	snapshot.Entries["src/m.cppm"] = domain.CacheEntry{
		Path:        "src/m.cppm",
		ContentHash: contentHash,
		CommandHash: "stale-command-hash",
		Scan:        &domain.CachedScan{},
	}

	scanner := &fakeScanner{}
	_, err = scan.NewEngine(scanner, hasher).Scan(context.Background(), root, units, snapshot, 1, &countingTelemetry{})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/m.cppm"}, scanner.scanned, "a changed command forces a re-scan")
}

func TestEngine_CollectsErrorsWithoutCancellingInFlight(t *testing.T) {
	t.Parallel()

	root, units := writeUnits(t, "src/a.cpp", "src/b.cpp")
	scanner := &fakeScanner{fail: map[string]error{
		"src/a.cpp": errors.New("scanner exploded on a"),
		"src/b.cpp": errors.New("scanner exploded on b"),
	}}

	_, err := scan.NewEngine(scanner, fs.NewHasher()).
		Scan(context.Background(), root, units, domain.NewCacheManifest(), 2, &countingTelemetry{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "exploded"))
}

func TestEngine_MissingSourceFails(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	units := []domain.TranslationUnit{{Path: domain.NewInternedString("src/ghost.cpp")}}

	_, err := scan.NewEngine(&fakeScanner{}, fs.NewHasher()).
		Scan(context.Background(), root, units, domain.NewCacheManifest(), 1, &countingTelemetry{})
	require.Error(t, err)
}
