// Package app implements the application layer for cuv.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/cuv/internal/engine/planner"
	"go.trai.ch/cuv/internal/engine/scan"
	"go.trai.ch/zerr"
)

// BuildOptions carries the per-invocation settings of a build.
type BuildOptions struct {
	// ConfigPath is the path to the project file.
	ConfigPath string

	// BuildDir is the build directory relative to the project root. Empty
	// selects the default.
	BuildDir string

	// Jobs bounds scanner and executor parallelism. Zero or negative means
	// one worker per CPU.
	Jobs int

	// NoCache bypasses the fingerprint store and rebuilds everything.
	NoCache bool

	// EmitOnly stops after writing the build file, without invoking the
	// executor or committing fingerprints.
	EmitOnly bool
}

// App wires the build pipeline together: load, scan, plan, emit, run, commit.
type App struct {
	loader       ports.ProjectLoader
	scanEngine   *scan.Engine
	planner      *planner.Planner
	emitter      ports.BuildFileEmitter
	runner       ports.BuildRunner
	storeFactory ports.StoreFactory
	logger       ports.Logger
	telemetry    ports.Telemetry
}

// New creates an App.
func New(
	loader ports.ProjectLoader,
	scanEngine *scan.Engine,
	pl *planner.Planner,
	emitter ports.BuildFileEmitter,
	runner ports.BuildRunner,
	storeFactory ports.StoreFactory,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		loader:       loader,
		scanEngine:   scanEngine,
		planner:      pl,
		emitter:      emitter,
		runner:       runner,
		storeFactory: storeFactory,
		logger:       logger,
		telemetry:    telemetry,
	}
}

// Build runs a full incremental build.
//
// The fingerprint store is committed exactly once, and only after the
// executor reports success. Any earlier failure leaves the previous manifest
// untouched so the next invocation replans from the last known good state.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	project, layout, plan, store, err := a.plan(ctx, opts)
	if err != nil {
		return err
	}

	if err := a.emitter.Emit(project, layout, plan.Graph); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("planned %d edges, %d stale", len(plan.Graph.Edges), plan.Graph.StaleCount()))

	if opts.EmitOnly {
		return nil
	}

	_, vtx := a.telemetry.Record(ctx, "ninja -C "+layout.BuildDir)
	runErr := a.runner.Run(ctx, a.rootedLayout(project, layout), opts.Jobs, vtx)
	vtx.Complete(runErr)
	if runErr != nil {
		return runErr
	}

	if err := store.Commit(plan.Entries); err != nil {
		return zerr.Wrap(err, "build succeeded but fingerprints were not persisted")
	}

	return nil
}

// Plan runs the pipeline up to plan compilation without emitting or building.
func (a *App) Plan(ctx context.Context, opts BuildOptions) (*planner.Plan, error) {
	_, _, plan, _, err := a.plan(ctx, opts)
	return plan, err
}

// Close releases the telemetry session.
func (a *App) Close() error {
	return a.telemetry.Close()
}

func (a *App) plan(ctx context.Context, opts BuildOptions) (*domain.Project, domain.Layout, *planner.Plan, ports.FingerprintStore, error) {
	fail := func(err error) (*domain.Project, domain.Layout, *planner.Plan, ports.FingerprintStore, error) {
		return nil, domain.Layout{}, nil, nil, err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = domain.ProjectFileName
	}

	project, err := a.loader.Load(configPath)
	if err != nil {
		return fail(err)
	}

	layout := domain.NewLayout(opts.BuildDir)
	for _, dir := range layout.ArtifactDirs() {
		if err := os.MkdirAll(filepath.Join(project.Root, dir), domain.DirPerm); err != nil {
			return fail(zerr.Wrap(err, "failed to create build directory"))
		}
	}

	store := a.storeFactory(filepath.Join(project.Root, layout.CacheFilePath()), a.logger)
	snapshot := store.Snapshot()

	units := translationUnits(project, layout)

	records, err := a.scanEngine.Scan(ctx, project.Root, units, snapshot, opts.Jobs, a.telemetry)
	if err != nil {
		return fail(err)
	}

	graph, err := domain.BuildModuleGraph(records)
	if err != nil {
		return fail(err)
	}
	if err := graph.Validate(); err != nil {
		return fail(err)
	}

	plan, err := a.planner.Compile(project, layout, graph, records, snapshot, opts.NoCache)
	if err != nil {
		return fail(err)
	}

	return project, layout, plan, store, nil
}

// rootedLayout rebases the layout's build directory onto the project root so
// the executor runs in the right place regardless of the caller's cwd.
func (a *App) rootedLayout(project *domain.Project, layout domain.Layout) domain.Layout {
	return domain.Layout{BuildDir: filepath.Join(project.Root, layout.BuildDir)}
}

// translationUnits expands the project's targets into scannable units with
// their full compile commands. The command doubles as the scanner invocation
// and the command-hash input, so any flag change re-scans and recompiles.
func translationUnits(project *domain.Project, layout domain.Layout) []domain.TranslationUnit {
	var units []domain.TranslationUnit
	seen := make(map[string]bool)

	for _, target := range project.Targets {
		for _, src := range target.Sources {
			if seen[src.String()] {
				continue
			}
			seen[src.String()] = true

			units = append(units, domain.TranslationUnit{
				Path:    src,
				Target:  target.Name,
				Dialect: project.Dialect,
				Flags:   compileCommand(project, layout, src.String()),
			})
		}
	}

	return units
}

// compileCommand builds the compile command for one unit, rooted at the
// project directory.
func compileCommand(project *domain.Project, layout domain.Layout, src string) []string {
	cmd := []string{
		project.Toolchain.CXX,
		"-std=" + project.Dialect,
		"-fmodules",
	}
	if strings.EqualFold(project.BuildType, "release") {
		cmd = append(cmd, "-O2", "-DNDEBUG")
	} else {
		cmd = append(cmd, "-g", "-O0")
	}
	cmd = append(cmd,
		"-fprebuilt-module-path="+filepath.Join(layout.BuildDir, domain.ModuleCacheDirName),
		"-c", src,
		"-o", filepath.Join(layout.BuildDir, layout.ObjectPath(src)),
	)
	return cmd
}

// FormatOrder renders a plan's module order for display.
func FormatOrder(plan *planner.Plan) string {
	out := "module build order (" + strconv.Itoa(len(plan.Order)) + " modules):\n"
	for i, key := range plan.Order {
		out += "  " + strconv.Itoa(i+1) + ". " + key.String() + "\n"
	}
	out += fmt.Sprintf("%d edges, %d stale\n", len(plan.Graph.Edges), plan.Graph.StaleCount())
	return out
}
