// Package domain contains the core domain models for the module dependency graph.
package domain

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ModuleKey identifies a module or module partition within a project.
type ModuleKey struct {
	Name      InternedString
	Partition InternedString
}

// NewModuleKey creates a ModuleKey from a logical name as reported by the
// scanner. A partition is encoded as "name:partition".
func NewModuleKey(logical string) ModuleKey {
	name, part, found := strings.Cut(logical, ":")
	k := ModuleKey{Name: NewInternedString(name)}
	if found {
		k.Partition = NewInternedString(part)
	}
	return k
}

// String returns the logical name, e.g. "M" or "M:part".
func (k ModuleKey) String() string {
	if k.Partition.String() == "" {
		return k.Name.String()
	}
	return k.Name.String() + ":" + k.Partition.String()
}

// IsPartition reports whether the key names a module partition.
func (k ModuleKey) IsPartition() bool {
	return k.Partition.String() != ""
}

// Primary returns the key of the owning primary module.
func (k ModuleKey) Primary() ModuleKey {
	return ModuleKey{Name: k.Name}
}

// ModuleNode is a node in the module graph. Exactly one translation unit
// provides each key within a project.
type ModuleNode struct {
	Key         ModuleKey
	Provider    *DependencyRecord
	IsInterface bool
	Requires    []ModuleKey
}

// ModuleGraph is the validated set of module nodes for one invocation.
// It is rebuilt from scratch each run from the current dependency records.
type ModuleGraph struct {
	nodes map[ModuleKey]*ModuleNode
	order []ModuleKey
}

// BuildModuleGraph aggregates dependency records into a module graph.
//
// It collects every duplicate-provider conflict and every unresolved module
// reference before returning, so a single run reports the full set of
// configuration errors rather than aborting on the first one.
func BuildModuleGraph(records []*DependencyRecord) (*ModuleGraph, error) {
	providers := make(map[ModuleKey][]*DependencyRecord)
	for _, rec := range records {
		if rec.ProvidesModule() {
			key := *rec.Module.Provides
			providers[key] = append(providers[key], rec)
		}
	}

	var errs error
	for _, key := range sortedKeys(providers) {
		recs := providers[key]
		if len(recs) > 1 {
			paths := make([]string, len(recs))
			for i, r := range recs {
				paths[i] = r.Unit.Path.String()
			}
			slices.Sort(paths)
			errs = errors.Join(errs, zerr.With(
				zerr.With(zerr.Wrap(ErrDuplicateModule, key.String()), "module", key.String()),
				"paths", strings.Join(paths, ", "),
			))
		}
	}
	if errs != nil {
		return nil, errs
	}

	g := &ModuleGraph{nodes: make(map[ModuleKey]*ModuleNode, len(providers))}
	for key, recs := range providers {
		g.nodes[key] = &ModuleNode{
			Key:         key,
			Provider:    recs[0],
			IsInterface: recs[0].Module.IsInterface,
			Requires:    slices.Clone(recs[0].Module.Requires),
		}
	}

	// Every reference in every record must resolve to a provider, including
	// references made by non-module units.
	for _, rec := range records {
		for _, req := range rec.Module.Requires {
			if _, ok := g.nodes[req]; !ok {
				errs = errors.Join(errs, zerr.With(
					zerr.With(zerr.Wrap(ErrUnresolvedModule, req.String()), "module", req.String()),
					"importer", rec.Unit.Path.String(),
				))
			}
		}
	}
	if errs != nil {
		return nil, errs
	}

	// A primary interface depends on all partitions of its module: partitions
	// must be compiled before the primary unit that re-exports them.
	for key := range g.nodes {
		if !key.IsPartition() {
			continue
		}
		primary, ok := g.nodes[key.Primary()]
		if !ok {
			continue
		}
		if !slices.Contains(primary.Requires, key) {
			primary.Requires = append(primary.Requires, key)
		}
	}

	for _, node := range g.nodes {
		slices.SortFunc(node.Requires, compareKeys)
		node.Requires = slices.Compact(node.Requires)
	}

	return g, nil
}

// Node returns the node for the given key, if present.
func (g *ModuleGraph) Node(key ModuleKey) (*ModuleNode, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// NodeCount returns the number of module nodes in the graph.
func (g *ModuleGraph) NodeCount() int {
	return len(g.nodes)
}

// Keys returns all module keys sorted by logical name.
func (g *ModuleGraph) Keys() []ModuleKey {
	return sortedKeys(g.nodes)
}

// Validate checks for cycles using a depth-first traversal with three-color
// marking. It populates the topological order on success.
func (g *ModuleGraph) Validate() error {
	g.order = make([]ModuleKey, 0, len(g.nodes))
	visited := make(map[ModuleKey]int, len(g.nodes)) // 0: unvisited, 1: in progress, 2: finished
	var path []ModuleKey

	var visit func(k ModuleKey) error
	visit = func(k ModuleKey) error {
		visited[k] = 1
		path = append(path, k)

		for _, req := range g.nodes[k].Requires {
			if visited[req] == 1 {
				return g.buildCycleError(path, req)
			}
			if visited[req] == 0 {
				if err := visit(req); err != nil {
					return err
				}
			}
		}

		visited[k] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, k)
		return nil
	}

	// Iterate in sorted key order so disconnected components are visited
	// deterministically regardless of scan arrival order.
	for _, key := range g.Keys() {
		if visited[key] == 0 {
			if err := visit(key); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error carrying the full cycle as an ordered
// key list, e.g. "A -> B -> A".
func (g *ModuleGraph) buildCycleError(path []ModuleKey, dep ModuleKey) error {
	start := slices.Index(path, dep)
	cycle := make([]string, 0, len(path)-start+1)
	for i := start; i < len(path); i++ {
		cycle = append(cycle, path[i].String())
	}
	cycle = append(cycle, dep.String())
	joined := strings.Join(cycle, " -> ")
	return zerr.With(zerr.Wrap(ErrModuleCycle, joined), "cycle", joined)
}

// Walk returns an iterator that yields nodes in dependency order.
// It assumes Validate() has been called and returned nil.
func (g *ModuleGraph) Walk() iter.Seq[*ModuleNode] {
	return func(yield func(*ModuleNode) bool) {
		for _, key := range g.order {
			if !yield(g.nodes[key]) {
				return
			}
		}
	}
}

func compareKeys(a, b ModuleKey) int {
	return strings.Compare(a.String(), b.String())
}

func sortedKeys[V any](m map[ModuleKey]V) []ModuleKey {
	keys := make([]ModuleKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}
