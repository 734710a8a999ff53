// Package config provides the cproject.toml loader.
package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	defaultBuildType = "debug"
	defaultDialect   = "c++20"
	defaultCXX       = "clang++"
	defaultAR        = "llvm-ar"
)

var _ ports.ProjectLoader = (*Loader)(nil)

// Loader implements ports.ProjectLoader for TOML project files. Source
// patterns are expanded through the resolver at load time so the rest of
// the pipeline only ever sees concrete files.
type Loader struct {
	resolver ports.InputResolver
}

// NewLoader creates a Loader backed by the given input resolver.
func NewLoader(resolver ports.InputResolver) *Loader {
	return &Loader{resolver: resolver}
}

// Load reads and validates the project file at the given path.
func (l *Loader) Load(path string) (*domain.Project, error) {
	var file projectFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrProjectConfigInvalid, err.Error()), "path", path),
			"cause", err.Error(),
		)
	}

	if file.Project.Name == "" {
		return nil, invalid(path, "project.name is required")
	}
	if len(file.BuildSystem.Targets) == 0 {
		return nil, invalid(path, "at least one target is required")
	}

	root := filepath.Dir(path)
	project := &domain.Project{
		Name:      file.Project.Name,
		Version:   file.Project.Version,
		Root:      root,
		BuildType: withDefault(file.BuildSystem.BuildType, defaultBuildType),
		Dialect:   withDefault(file.BuildSystem.Dialect, defaultDialect),
		Toolchain: domain.Toolchain{
			CXX: withDefault(file.BuildSystem.Toolchain.CXXCompiler, defaultCXX),
			AR:  withDefault(file.BuildSystem.Toolchain.AR, defaultAR),
		},
	}

	if bt := project.BuildType; !strings.EqualFold(bt, "debug") && !strings.EqualFold(bt, "release") {
		return nil, invalid(path, "build_type must be debug or release, got "+bt)
	}

	// Deterministic target order regardless of map iteration.
	names := make([]string, 0, len(file.BuildSystem.Targets))
	for name := range file.BuildSystem.Targets {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		target, err := l.resolveTarget(path, root, name, file.BuildSystem.Targets[name])
		if err != nil {
			return nil, err
		}
		project.Targets = append(project.Targets, target)
	}

	return project, nil
}

func (l *Loader) resolveTarget(path, root, name string, section targetSection) (domain.Target, error) {
	var kind domain.TargetKind
	switch section.Type {
	case "executable":
		kind = domain.TargetExecutable
	case "library":
		kind = domain.TargetLibrary
	default:
		return domain.Target{}, invalid(path, "target "+name+" has unknown type "+section.Type)
	}

	if len(section.Sources) == 0 {
		return domain.Target{}, invalid(path, "target "+name+" declares no sources")
	}

	sources, err := l.resolver.ResolveInputs(section.Sources, root)
	if err != nil {
		return domain.Target{}, zerr.With(err, "target", name)
	}

	interned := make([]domain.InternedString, len(sources))
	for i, s := range sources {
		interned[i] = domain.NewInternedString(s)
	}

	return domain.Target{
		Name:    domain.NewInternedString(name),
		Kind:    kind,
		Sources: interned,
	}, nil
}

func invalid(path, reason string) error {
	return zerr.With(
		zerr.With(zerr.Wrap(domain.ErrProjectConfigInvalid, reason), "path", path),
		"reason", reason,
	)
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
