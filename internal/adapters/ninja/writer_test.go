package ninja_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cuv/internal/adapters/ninja"
	"go.trai.ch/cuv/internal/core/domain"
)

func is(s string) domain.InternedString {
	return domain.NewInternedString(s)
}

func testProject(root string) *domain.Project {
	return &domain.Project{
		Name:      "demo",
		Root:      root,
		BuildType: "debug",
		Dialect:   "c++20",
		Toolchain: domain.Toolchain{CXX: "clang++", AR: "llvm-ar"},
		Targets: []domain.Target{
			{Name: is("demo"), Kind: domain.TargetExecutable},
		},
	}
}

func testGraph() *domain.BuildGraph {
	return &domain.BuildGraph{Edges: []domain.BuildEdge{
		{
			Output: is("objects/src/main.cpp.o"),
			Rule:   domain.RuleCompileObject,
			Inputs: []domain.InternedString{is("../src/main.cpp")},
			OrderOnly: []domain.InternedString{
				is("module_cache/math.pcm"),
			},
			Stale: true,
		},
		{
			Output: is("module_cache/math.pcm"),
			Rule:   domain.RuleCompileModuleInterface,
			Inputs: []domain.InternedString{is("../src/math.cppm")},
		},
		{
			Output: is("targets/demo"),
			Rule:   domain.RuleLink,
			Inputs: []domain.InternedString{
				is("objects/src/main.cpp.o"),
				is("objects/src/math.cppm.o"),
			},
			Stale: true,
		},
	}}
}

func TestSerialize_Layout(t *testing.T) {
	t.Parallel()

	text := ninja.Serialize(testProject("."), testGraph())

	assert.Contains(t, text, "ninja_required_version = 1.10\n")
	assert.Contains(t, text, "cxx = clang++\n")
	assert.Contains(t, text, "ar = llvm-ar\n")
	assert.Contains(t, text, "-std=c++20")

	// Every rule is declared exactly once, stale or not.
	for _, kind := range domain.RuleKinds {
		assert.Equal(t, 1, strings.Count(text, "rule "+string(kind)+"\n"))
	}

	assert.Contains(t, text, "build objects/src/main.cpp.o: compile_object ../src/main.cpp || module_cache/math.pcm\n  stale = 1\n")
	assert.Contains(t, text, "build module_cache/math.pcm: compile_module_interface ../src/math.cppm\n")
	assert.Contains(t, text, "default targets/demo\n")
}

func TestSerialize_EdgesSortedByOutput(t *testing.T) {
	t.Parallel()

	text := ninja.Serialize(testProject("."), testGraph())

	bmi := strings.Index(text, "build module_cache/math.pcm:")
	obj := strings.Index(text, "build objects/src/main.cpp.o:")
	link := strings.Index(text, "build targets/demo:")
	require.True(t, bmi >= 0 && obj >= 0 && link >= 0)
	assert.Less(t, bmi, obj, "edges are ordered by output path")
	assert.Less(t, obj, link, "edges are ordered by output path")
}

func TestSerialize_Deterministic(t *testing.T) {
	t.Parallel()

	project := testProject(".")
	first := ninja.Serialize(project, testGraph())
	second := ninja.Serialize(project, testGraph())

	assert.Equal(t, first, second, "identical graphs must serialize identically")
}

func TestSerialize_EscapesSpecialCharacters(t *testing.T) {
	t.Parallel()

	graph := &domain.BuildGraph{Edges: []domain.BuildEdge{
		{
			Output: is("objects/odd name/a$b.o"),
			Rule:   domain.RuleCompileObject,
			Inputs: []domain.InternedString{is("../src/odd name/a$b.cpp")},
		},
	}}

	text := ninja.Serialize(testProject("."), graph)
	assert.Contains(t, text, "build objects/odd$ name/a$$b.o: compile_object ../src/odd$ name/a$$b.cpp\n")
}

func TestEmit_WritesBuildFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	layout := domain.NewLayout("build")

	emitter := ninja.NewEmitter()
	require.NoError(t, emitter.Emit(testProject(root), layout, testGraph()))

	data, err := os.ReadFile(filepath.Join(root, "build", domain.BuildFileName))
	require.NoError(t, err)
	assert.Equal(t, ninja.Serialize(testProject(root), testGraph()), string(data))
}

func TestEmit_RejectsInvalidOrderOnly(t *testing.T) {
	t.Parallel()

	graph := &domain.BuildGraph{Edges: []domain.BuildEdge{
		{
			Output:    is("objects/src/main.cpp.o"),
			Rule:      domain.RuleCompileObject,
			Inputs:    []domain.InternedString{is("../src/main.cpp")},
			OrderOnly: []domain.InternedString{is("module_cache/ghost.pcm")},
		},
	}}

	err := ninja.NewEmitter().Emit(testProject(t.TempDir()), domain.NewLayout("build"), graph)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmitFailed))
}
