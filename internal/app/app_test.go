package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cuv/internal/adapters/cache"
	"go.trai.ch/cuv/internal/adapters/fs"
	"go.trai.ch/cuv/internal/adapters/telemetry"
	"go.trai.ch/cuv/internal/app"
	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/cuv/internal/core/ports/mocks"
	"go.trai.ch/cuv/internal/engine/planner"
	"go.trai.ch/cuv/internal/engine/scan"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app     *app.App
	loader  *mocks.MockProjectLoader
	scanner *mocks.MockDependencyScanner
	emitter *mocks.MockBuildFileEmitter
	runner  *mocks.MockBuildRunner
	root    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "hello.cppm"), []byte("export module hello;\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.cpp"), []byte("import hello;\n"), 0o600))

	f := &fixture{
		loader:  mocks.NewMockProjectLoader(ctrl),
		scanner: mocks.NewMockDependencyScanner(ctrl),
		emitter: mocks.NewMockBuildFileEmitter(ctrl),
		runner:  mocks.NewMockBuildRunner(ctrl),
		root:    root,
	}

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	hasher := fs.NewHasher()
	storeFactory := ports.StoreFactory(func(path string, logger ports.Logger) ports.FingerprintStore {
		return cache.NewStore(path, logger)
	})

	f.app = app.New(
		f.loader,
		scan.NewEngine(f.scanner, hasher),
		planner.NewPlanner(hasher),
		f.emitter,
		f.runner,
		storeFactory,
		logger,
		telemetry.NewNoop(),
	)
	return f
}

func (f *fixture) project() *domain.Project {
	return &domain.Project{
		Name:      "demo",
		Root:      f.root,
		BuildType: "debug",
		Dialect:   "c++20",
		Toolchain: domain.Toolchain{CXX: "clang++", AR: "llvm-ar"},
		Targets: []domain.Target{{
			Name: domain.NewInternedString("demo"),
			Kind: domain.TargetExecutable,
			Sources: []domain.InternedString{
				domain.NewInternedString("src/hello.cppm"),
				domain.NewInternedString("src/main.cpp"),
			},
		}},
	}
}

// expectScans wires the scanner mock to report hello.cppm as a module
// interface and main.cpp as its importer.
func (f *fixture) expectScans() {
	f.scanner.EXPECT().
		Scan(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, unit *domain.TranslationUnit) (*domain.DependencyRecord, error) {
			rec := &domain.DependencyRecord{Unit: *unit}
			switch unit.Path.String() {
			case "src/hello.cppm":
				key := domain.NewModuleKey("hello")
				rec.Module.Provides = &key
				rec.Module.IsInterface = true
			case "src/main.cpp":
				rec.Module.Requires = []domain.ModuleKey{domain.NewModuleKey("hello")}
			}
			return rec, nil
		}).
		Times(2)
}

func TestBuild_SuccessCommitsFingerprints(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ProjectFileName).Return(f.project(), nil)
	f.expectScans()
	f.emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), 2, gomock.Any()).Return(nil)

	err := f.app.Build(context.Background(), app.BuildOptions{Jobs: 2})
	require.NoError(t, err)

	cachePath := filepath.Join(f.root, "build", domain.CacheFileName)
	_, statErr := os.Stat(cachePath)
	assert.NoError(t, statErr, "a successful build persists the fingerprint store")
}

func TestBuild_SecondRunSkipsScanning(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ProjectFileName).Return(f.project(), nil).Times(2)
	f.expectScans()
	f.emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))

	// The scanner expectation is exhausted after the first run; a second
	// build must answer every unit from the persisted scan results.
	require.NoError(t, f.app.Build(context.Background(), app.BuildOptions{}))
}

func TestBuild_ExecutorFailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ProjectFileName).Return(f.project(), nil)
	f.expectScans()
	f.emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(zerr.With(zerr.Wrap(domain.ErrBuildRunnerFailed, "executor exited nonzero"), "exit_code", 1))

	err := f.app.Build(context.Background(), app.BuildOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildRunnerFailed))

	_, statErr := os.Stat(filepath.Join(f.root, "build", domain.CacheFileName))
	assert.True(t, os.IsNotExist(statErr), "a failed build must not commit fingerprints")
}

func TestBuild_EmitOnlySkipsExecutor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ProjectFileName).Return(f.project(), nil)
	f.expectScans()
	f.emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := f.app.Build(context.Background(), app.BuildOptions{EmitOnly: true})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(f.root, "build", domain.CacheFileName))
	assert.True(t, os.IsNotExist(statErr), "emit-only must not commit fingerprints")
}

func TestBuild_LoaderFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load("bad/cproject.toml").
		Return(nil, zerr.With(zerr.Wrap(domain.ErrProjectConfigInvalid, "unreadable project file"), "path", "bad/cproject.toml"))

	err := f.app.Build(context.Background(), app.BuildOptions{ConfigPath: "bad/cproject.toml"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProjectConfigInvalid))
}

func TestPlan_ReportsOrderWithoutBuilding(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load(domain.ProjectFileName).Return(f.project(), nil)
	f.expectScans()

	plan, err := f.app.Plan(context.Background(), app.BuildOptions{})
	require.NoError(t, err)

	require.Len(t, plan.Order, 1)
	assert.Equal(t, "hello", plan.Order[0].String())

	out := app.FormatOrder(plan)
	assert.Contains(t, out, "1. hello")
}

func TestScaffold_CreatesBuildableSkeleton(t *testing.T) {
	f := newFixture(t)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	require.NoError(t, f.app.Scaffold("widget"))

	data, err := os.ReadFile(filepath.Join("widget", domain.ProjectFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "widget"`)

	_, err = os.Stat(filepath.Join("widget", "src", "main.cpp"))
	assert.NoError(t, err)

	assert.Error(t, f.app.Scaffold("widget"), "an existing directory is refused")
}
