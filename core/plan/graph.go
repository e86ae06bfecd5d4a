// Package plan builds the dependency graph over work items and derives the
// deterministic execution order used by every trial. Each item has at most
// one predecessor, so the graph is a forest of chains; cycles and dangling
// references are rejected before any trial runs.
package plan

import (
	"fmt"
	"sort"

	"github.com/avelard/roadcast/core/model"
)

// Graph is the validated dependency structure of one simulation run.
// It is read-only after Build.
type Graph struct {
	order []model.WorkItem
	items map[int]model.WorkItem
}

// visit states for the depth-first traversal.
const (
	unvisited = iota
	inProgress
	done
)

// Build indexes the items, verifies referential integrity and computes the
// topological order. Items whose dependencies are simultaneously satisfied
// are ordered by ascending position; this tie-break decides who claims
// scarce period capacity first and must stay stable.
func Build(items []model.WorkItem) (*Graph, error) {
	index := make(map[int]model.WorkItem, len(items))
	for _, it := range items {
		if _, dup := index[it.Position]; dup {
			return nil, fmt.Errorf("duplicate work item position %d", it.Position)
		}
		index[it.Position] = it
	}
	for _, it := range items {
		if !it.HasDependency() {
			continue
		}
		if _, ok := index[it.DependsOn]; !ok {
			return nil, fmt.Errorf("work item %d references unknown dependency %d", it.Position, it.DependsOn)
		}
	}

	positions := make([]int, 0, len(items))
	for p := range index {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	g := &Graph{order: make([]model.WorkItem, 0, len(items)), items: index}
	state := make(map[int]int, len(items))
	var visit func(pos int) error
	visit = func(pos int) error {
		switch state[pos] {
		case done:
			return nil
		case inProgress:
			return fmt.Errorf("dependency cycle involving work item %d", pos)
		}
		state[pos] = inProgress
		it := index[pos]
		if it.HasDependency() {
			if err := visit(it.DependsOn); err != nil {
				return err
			}
		}
		state[pos] = done
		g.order = append(g.order, it)
		return nil
	}
	for _, p := range positions {
		if err := visit(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Order returns the items in execution order: every item appears after its
// dependency, ties broken by ascending position.
func (g *Graph) Order() []model.WorkItem { return g.order }

// Item looks up a work item by position.
func (g *Graph) Item(pos int) (model.WorkItem, bool) {
	it, ok := g.items[pos]
	return it, ok
}
