package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// RuleKind identifies one of the fixed build rules.
type RuleKind string

const (
	// RuleCompileModuleInterface precompiles a module interface unit into a BMI.
	RuleCompileModuleInterface RuleKind = "compile_module_interface"
	// RuleCompileObject compiles a source or BMI into an object file.
	RuleCompileObject RuleKind = "compile_object"
	// RuleLink links objects into an executable.
	RuleLink RuleKind = "link"
	// RuleArchive archives objects into a static library.
	RuleArchive RuleKind = "archive"
)

// RuleKinds lists the fixed rule table in emission order.
var RuleKinds = []RuleKind{
	RuleCompileModuleInterface,
	RuleCompileObject,
	RuleLink,
	RuleArchive,
}

// BuildEdge is a single build statement: one primary output produced from
// explicit inputs, gated by order-only inputs.
type BuildEdge struct {
	// Output is the primary output artifact path.
	Output InternedString

	// Rule selects the rule kind for this edge.
	Rule RuleKind

	// Inputs are the explicit inputs (sources, headers, objects). Their
	// content drives the compile or link command.
	Inputs []InternedString

	// OrderOnly are the BMI artifacts of imported modules. Their existence,
	// not their content, gates scheduling of this edge.
	OrderOnly []InternedString

	// Stale marks the edge for re-execution. Fresh edges are still part of
	// the graph so the executor sees a structurally complete plan.
	Stale bool
}

// BuildGraph is the full ordered edge set handed to the build-file emitter.
type BuildGraph struct {
	Edges []BuildEdge
}

// StaleCount returns the number of edges marked stale.
func (g *BuildGraph) StaleCount() int {
	n := 0
	for _, e := range g.Edges {
		if e.Stale {
			n++
		}
	}
	return n
}

// Validate verifies that every output is produced by exactly one edge and
// that every order-only input names an artifact produced by exactly one
// other edge, never the edge itself.
func (g *BuildGraph) Validate() error {
	producers := make(map[InternedString]int, len(g.Edges))
	for _, e := range g.Edges {
		producers[e.Output]++
	}

	for _, e := range g.Edges {
		if producers[e.Output] != 1 {
			return zerr.With(zerr.New("artifact is produced by more than one edge"), "output", e.Output.String())
		}
		for _, dep := range e.OrderOnly {
			if dep == e.Output {
				return zerr.With(zerr.New("edge order-only depends on its own output"), "output", e.Output.String())
			}
			if producers[dep] != 1 {
				return zerr.With(
					zerr.With(zerr.New("order-only input has no unique producer"), "input", dep.String()),
					"output", e.Output.String(),
				)
			}
		}
	}
	return nil
}

// SortedEdges returns the edges sorted by output artifact path. The emitter
// writes edges in this order so identical graphs serialize identically.
func (g *BuildGraph) SortedEdges() []BuildEdge {
	edges := slices.Clone(g.Edges)
	slices.SortFunc(edges, func(a, b BuildEdge) int {
		return strings.Compare(a.Output.String(), b.Output.String())
	})
	return edges
}
