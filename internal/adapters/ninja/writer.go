// Package ninja serializes build graphs to ninja syntax and drives the
// ninja executor.
package ninja

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/zerr"
)

// requiredVersion is the minimum ninja version the emitted file demands.
// Order-only inputs and per-edge variables are stable well before it, but
// pinning one version keeps the emitted header byte-stable.
const requiredVersion = "1.10"

var _ ports.BuildFileEmitter = (*Emitter)(nil)

// Emitter implements ports.BuildFileEmitter for ninja build files.
//
// Emission is a pure function of project and graph: variables, the rule
// table, sorted edges, then defaults. Two runs over an identical graph
// produce byte-identical files, so ninja itself never sees a spurious change.
type Emitter struct{}

// NewEmitter creates a ninja Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit writes the build file for the given project and graph.
func (e *Emitter) Emit(project *domain.Project, layout domain.Layout, graph *domain.BuildGraph) error {
	if err := graph.Validate(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrEmitFailed, err.Error()), "cause", err.Error())
	}

	text := Serialize(project, graph)

	path := filepath.Join(project.Root, layout.BuildFilePath())
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrEmitFailed, err.Error()), "path", path), "cause", err.Error())
	}
	if err := os.WriteFile(path, []byte(text), domain.FilePerm); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrEmitFailed, err.Error()), "path", path), "cause", err.Error())
	}

	return nil
}

// Serialize renders the build file text without touching the filesystem.
func Serialize(project *domain.Project, graph *domain.BuildGraph) string {
	var b strings.Builder

	b.WriteString("# Generated by cuv. Do not edit.\n")
	b.WriteString("ninja_required_version = " + requiredVersion + "\n\n")

	writeVariables(&b, project)
	writeRules(&b)
	writeEdges(&b, graph)
	writeDefaults(&b, project)

	return b.String()
}

func writeVariables(b *strings.Builder, project *domain.Project) {
	b.WriteString("cxx = " + project.Toolchain.CXX + "\n")
	b.WriteString("ar = " + project.Toolchain.AR + "\n")
	b.WriteString("cxxflags = " + strings.Join(compileFlags(project), " ") + "\n")
	b.WriteString("module_cache = " + domain.ModuleCacheDirName + "\n\n")
}

// compileFlags derives the common flag set from the project description.
func compileFlags(project *domain.Project) []string {
	flags := []string{"-std=" + project.Dialect, "-fmodules"}
	if strings.EqualFold(project.BuildType, "release") {
		flags = append(flags, "-O2", "-DNDEBUG")
	} else {
		flags = append(flags, "-g", "-O0")
	}
	return flags
}

// ruleCommands is the fixed rule table. RuleKinds fixes the emission order.
var ruleCommands = map[domain.RuleKind]struct {
	command     string
	description string
}{
	domain.RuleCompileModuleInterface: {
		command:     "$cxx $cxxflags -fprebuilt-module-path=$module_cache --precompile $in -o $out",
		description: "BMI $out",
	},
	domain.RuleCompileObject: {
		command:     "$cxx $cxxflags -fprebuilt-module-path=$module_cache -c $in -o $out",
		description: "CXX $out",
	},
	domain.RuleLink: {
		command:     "$cxx $cxxflags $in -o $out",
		description: "LINK $out",
	},
	domain.RuleArchive: {
		command:     "$ar rcs $out $in",
		description: "AR $out",
	},
}

func writeRules(b *strings.Builder) {
	for _, kind := range domain.RuleKinds {
		rule := ruleCommands[kind]
		b.WriteString("rule " + string(kind) + "\n")
		b.WriteString("  command = " + rule.command + "\n")
		b.WriteString("  description = " + rule.description + "\n\n")
	}
}

func writeEdges(b *strings.Builder, graph *domain.BuildGraph) {
	for _, edge := range graph.SortedEdges() {
		b.WriteString("build " + escapePath(edge.Output.String()) + ": " + string(edge.Rule))
		for _, in := range edge.Inputs {
			b.WriteString(" " + escapePath(in.String()))
		}
		if len(edge.OrderOnly) > 0 {
			b.WriteString(" ||")
			for _, dep := range edge.OrderOnly {
				b.WriteString(" " + escapePath(dep.String()))
			}
		}
		b.WriteString("\n")
		if edge.Stale {
			b.WriteString("  stale = 1\n")
		}
	}
	b.WriteString("\n")
}

func writeDefaults(b *strings.Builder, project *domain.Project) {
	layout := domain.Layout{}
	defaults := make([]string, 0, len(project.Targets))
	for _, t := range project.Targets {
		defaults = append(defaults, escapePath(layout.TargetPath(t)))
	}
	slices.Sort(defaults)

	if len(defaults) > 0 {
		b.WriteString("default " + strings.Join(defaults, " ") + "\n")
	}
}

// escapePath escapes the characters ninja treats specially in paths.
// '$' must be escaped first so inserted escapes are not re-escaped.
func escapePath(path string) string {
	path = strings.ReplaceAll(path, "$", "$$")
	path = strings.ReplaceAll(path, " ", "$ ")
	path = strings.ReplaceAll(path, ":", "$:")
	return path
}
