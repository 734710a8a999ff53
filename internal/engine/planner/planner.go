// Package planner compiles scan results into an executable build plan.
package planner

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/cuv/internal/core/ports"
	"go.trai.ch/zerr"
)

// Plan is the compiled output of one invocation: the full edge set for the
// emitter, the module build order, and the cache entries to persist once the
// executor confirms success.
type Plan struct {
	Graph   *domain.BuildGraph
	Order   []domain.ModuleKey
	Entries []domain.CacheEntry
}

// Planner turns a validated module graph and its dependency records into a
// build graph with staleness marks.
type Planner struct {
	hasher ports.Hasher
}

// NewPlanner creates a Planner.
func NewPlanner(hasher ports.Hasher) *Planner {
	return &Planner{hasher: hasher}
}

// Compile builds the plan for the given project.
//
// The emitted graph always contains every edge; staleness only marks edges,
// it never removes them, so the executor sees a structurally complete plan
// on every run. With noCache set, every edge is marked stale.
func (p *Planner) Compile(
	project *domain.Project,
	layout domain.Layout,
	graph *domain.ModuleGraph,
	records []*domain.DependencyRecord,
	snapshot *domain.CacheManifest,
	noCache bool,
) (*Plan, error) {
	order, err := topoOrder(graph)
	if err != nil {
		return nil, err
	}

	fingerprints := p.bmiFingerprints(graph, order)
	stale := p.staleUnits(graph, order, records, fingerprints, snapshot, noCache)

	plan := &Plan{
		Graph: &domain.BuildGraph{},
		Order: order,
	}

	objects := make(map[string]string, len(records)) // source path -> object path
	for _, rec := range records {
		p.appendUnitEdges(plan, layout, rec, unitRequires(graph, rec), stale[rec.Unit.Path.String()])
		objects[rec.Unit.Path.String()] = layout.ObjectPath(rec.Unit.Path.String())
	}

	if err := p.appendTargetEdges(plan, project, layout, objects, stale); err != nil {
		return nil, err
	}

	plan.Entries = p.cacheEntries(records, fingerprints)

	if err := plan.Graph.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// topoOrder computes the module build order with Kahn's algorithm. Ready
// modules are drained in lexicographic provider-path order so the reported
// order is stable across runs and scan arrival orders.
func topoOrder(graph *domain.ModuleGraph) ([]domain.ModuleKey, error) {
	keys := graph.Keys()

	inDegree := make(map[domain.ModuleKey]int, len(keys))
	dependents := make(map[domain.ModuleKey][]domain.ModuleKey, len(keys))
	for _, key := range keys {
		node, _ := graph.Node(key)
		inDegree[key] = len(node.Requires)
		for _, req := range node.Requires {
			dependents[req] = append(dependents[req], key)
		}
	}

	less := func(a, b domain.ModuleKey) int {
		na, _ := graph.Node(a)
		nb, _ := graph.Node(b)
		return strings.Compare(na.Provider.Unit.Path.String(), nb.Provider.Unit.Path.String())
	}

	var ready []domain.ModuleKey
	for _, key := range keys {
		if inDegree[key] == 0 {
			ready = append(ready, key)
		}
	}
	slices.SortFunc(ready, less)

	order := make([]domain.ModuleKey, 0, len(keys))
	for len(ready) > 0 {
		key := ready[0]
		ready = ready[1:]
		order = append(order, key)

		for _, dep := range dependents[key] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
				slices.SortFunc(ready, less)
			}
		}
	}

	if len(order) != len(keys) {
		// Validate() reports the actual cycle; reaching this without it is a
		// caller bug.
		return nil, zerr.With(zerr.Wrap(domain.ErrModuleCycle, "graph was not validated"), "modules", len(keys)-len(order))
	}

	return order, nil
}

// bmiFingerprints computes a Merkle fingerprint per module BMI: the hash of
// the provider's content and command hashes plus the sorted fingerprints of
// every required module. A change anywhere below a module changes its
// fingerprint.
func (p *Planner) bmiFingerprints(graph *domain.ModuleGraph, order []domain.ModuleKey) map[domain.ModuleKey]string {
	fingerprints := make(map[domain.ModuleKey]string, len(order))

	for _, key := range order {
		node, _ := graph.Node(key)

		parts := []string{node.Provider.Unit.ContentHash, node.Provider.Unit.CommandHash}
		deps := make([]string, 0, len(node.Requires))
		for _, req := range node.Requires {
			deps = append(deps, fingerprints[req])
		}
		slices.Sort(deps)
		parts = append(parts, deps...)

		fingerprints[key] = p.hasher.HashStrings(parts...)
	}

	return fingerprints
}

// staleUnits decides which translation units need re-execution.
//
// A unit is fresh only when its snapshot entry matches the current content
// and command hashes, recorded a successful outcome, and saw the same set of
// required BMI fingerprints. On top of the per-unit check, staleness
// propagates: a unit importing a module whose provider is stale is stale
// itself, in topological order, transitively.
func (p *Planner) staleUnits(
	graph *domain.ModuleGraph,
	order []domain.ModuleKey,
	records []*domain.DependencyRecord,
	fingerprints map[domain.ModuleKey]string,
	snapshot *domain.CacheManifest,
	noCache bool,
) map[string]bool {
	stale := make(map[string]bool, len(records))

	fresh := func(rec *domain.DependencyRecord) bool {
		if noCache {
			return false
		}
		entry, ok := snapshot.Lookup(rec.Unit.Path.String())
		if !ok {
			return false
		}
		if entry.ContentHash != rec.Unit.ContentHash || entry.CommandHash != rec.Unit.CommandHash {
			return false
		}
		if entry.Outcome != domain.OutcomeSuccess {
			return false
		}
		return slices.Equal(entry.RequireBMIs, requireFingerprints(rec, fingerprints))
	}

	for _, rec := range records {
		stale[rec.Unit.Path.String()] = !fresh(rec)
	}

	// Propagate through the module graph first: a stale partition makes its
	// primary stale, a stale primary makes every importer stale.
	staleModule := make(map[domain.ModuleKey]bool, len(order))
	for _, key := range order {
		node, _ := graph.Node(key)
		s := stale[node.Provider.Unit.Path.String()]
		for _, req := range node.Requires {
			if staleModule[req] {
				s = true
			}
		}
		staleModule[key] = s
		if s {
			stale[node.Provider.Unit.Path.String()] = true
		}
	}

	for _, rec := range records {
		for _, req := range rec.Module.Requires {
			if staleModule[req] {
				stale[rec.Unit.Path.String()] = true
			}
		}
	}

	return stale
}

// unitRequires returns the modules a unit's compile must wait for. For a
// module provider this is the graph node's require set, which carries the
// synthesized primary-requires-partition edges on top of the scanned imports;
// the raw scan record alone would let a primary compile before its partitions.
func unitRequires(graph *domain.ModuleGraph, rec *domain.DependencyRecord) []domain.ModuleKey {
	if rec.ProvidesModule() {
		if node, ok := graph.Node(*rec.Module.Provides); ok {
			return node.Requires
		}
	}
	return rec.Module.Requires
}

// appendUnitEdges emits the compile edges for one translation unit. A module
// provider compiles in two steps, source to BMI and BMI to object; a plain
// unit compiles straight to its object.
func (p *Planner) appendUnitEdges(
	plan *Plan,
	layout domain.Layout,
	rec *domain.DependencyRecord,
	requires []domain.ModuleKey,
	stale bool,
) {
	src := sourceRef(layout, rec.Unit.Path.String())

	inputs := make([]domain.InternedString, 0, 1+len(rec.Includes))
	inputs = append(inputs, domain.NewInternedString(src))
	for _, inc := range rec.Includes {
		inputs = append(inputs, domain.NewInternedString(sourceRef(layout, inc.String())))
	}

	orderOnly := requireBMIs(layout, requires)
	object := domain.NewInternedString(layout.ObjectPath(rec.Unit.Path.String()))

	if rec.ProvidesModule() {
		bmi := domain.NewInternedString(layout.BMIPath(*rec.Module.Provides))

		plan.Graph.Edges = append(plan.Graph.Edges, domain.BuildEdge{
			Output:    bmi,
			Rule:      domain.RuleCompileModuleInterface,
			Inputs:    inputs,
			OrderOnly: orderOnly,
			Stale:     stale,
		})
		plan.Graph.Edges = append(plan.Graph.Edges, domain.BuildEdge{
			Output:    object,
			Rule:      domain.RuleCompileObject,
			Inputs:    []domain.InternedString{bmi},
			OrderOnly: orderOnly,
			Stale:     stale,
		})
		return
	}

	plan.Graph.Edges = append(plan.Graph.Edges, domain.BuildEdge{
		Output:    object,
		Rule:      domain.RuleCompileObject,
		Inputs:    inputs,
		OrderOnly: orderOnly,
		Stale:     stale,
	})
}

// appendTargetEdges emits one link or archive edge per target. A target is
// stale as soon as any of its member objects is stale.
func (p *Planner) appendTargetEdges(
	plan *Plan,
	project *domain.Project,
	layout domain.Layout,
	objects map[string]string,
	stale map[string]bool,
) error {
	for _, target := range project.Targets {
		inputs := make([]domain.InternedString, 0, len(target.Sources))
		targetStale := false

		for _, src := range target.Sources {
			object, ok := objects[src.String()]
			if !ok {
				return zerr.With(
					zerr.With(zerr.New("target source was never scanned"), "target", target.Name.String()),
					"source", src.String(),
				)
			}
			inputs = append(inputs, domain.NewInternedString(object))
			if stale[src.String()] {
				targetStale = true
			}
		}

		rule := domain.RuleLink
		if target.Kind == domain.TargetLibrary {
			rule = domain.RuleArchive
		}

		plan.Graph.Edges = append(plan.Graph.Edges, domain.BuildEdge{
			Output: domain.NewInternedString(layout.TargetPath(target)),
			Rule:   rule,
			Inputs: inputs,
			Stale:  targetStale,
		})
	}

	return nil
}

// cacheEntries builds the entries persisted after a confirmed successful
// build. Every scanned unit gets an entry carrying its scan result so the
// next invocation can skip unchanged units entirely.
func (p *Planner) cacheEntries(records []*domain.DependencyRecord, fingerprints map[domain.ModuleKey]string) []domain.CacheEntry {
	entries := make([]domain.CacheEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.CacheEntry{
			Path:        rec.Unit.Path.String(),
			ContentHash: rec.Unit.ContentHash,
			CommandHash: rec.Unit.CommandHash,
			Algorithm:   domain.HashAlgorithm,
			RequireBMIs: requireFingerprints(rec, fingerprints),
			Scan:        domain.CachedScanFromRecord(rec),
			Outcome:     domain.OutcomeSuccess,
		})
	}
	return entries
}

// requireFingerprints returns the sorted BMI fingerprints of a unit's
// required modules.
func requireFingerprints(rec *domain.DependencyRecord, fingerprints map[domain.ModuleKey]string) []string {
	if len(rec.Module.Requires) == 0 {
		return nil
	}
	out := make([]string, 0, len(rec.Module.Requires))
	for _, req := range rec.Module.Requires {
		out = append(out, fingerprints[req])
	}
	slices.Sort(out)
	return out
}

// requireBMIs returns the BMI artifact paths for a unit's required modules.
func requireBMIs(layout domain.Layout, requires []domain.ModuleKey) []domain.InternedString {
	if len(requires) == 0 {
		return nil
	}
	out := make([]domain.InternedString, 0, len(requires))
	for _, req := range requires {
		out = append(out, domain.NewInternedString(layout.BMIPath(req)))
	}
	return out
}

// sourceRef rewrites a project-root-relative source path so it resolves from
// inside the build directory, where the executor runs.
func sourceRef(layout domain.Layout, path string) string {
	rel, err := filepath.Rel(layout.BuildDir, path)
	if err != nil {
		// Both paths are root-relative, so Rel only fails on malformed input;
		// fall back to the raw path rather than aborting the plan.
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
