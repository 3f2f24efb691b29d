package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Graph is the cross-project dependency graph of one repeatable build.
// Edges point from a project to the projects it depends on. Validate must
// run (and succeed) before Walk.
type Graph struct {
	nodes map[string]*ProjectBuild
	order []string
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*ProjectBuild)}
}

// AddNode adds a project build to the graph.
// It returns an error if a project with the same name is already present.
func (g *Graph) AddNode(b *ProjectBuild) error {
	if _, exists := g.nodes[b.Name()]; exists {
		return zerr.With(ErrDuplicateProject, "project", b.Name())
	}
	g.nodes[b.Name()] = b
	return nil
}

// Node returns the build for name.
func (g *Graph) Node(name string) (*ProjectBuild, bool) {
	b, ok := g.nodes[name]
	return b, ok
}

// Len returns the number of projects in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Names returns every project name, sorted.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks that every dependency edge points at a known project and
// that the graph is acyclic, and computes a deterministic topological order.
// Roots are visited in sorted name order so the resulting order is stable
// across runs of the same build.
func (g *Graph) Validate() error {
	g.order = make([]string, 0, len(g.nodes))
	visited := make(map[string]int, len(g.nodes)) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		visited[name] = 1
		path = append(path, name)

		node, exists := g.nodes[name]
		if !exists {
			return zerr.With(ErrUnknownDependency, "dependency", name)
		}

		for _, dep := range node.Dependencies {
			if visited[dep] == 1 {
				return g.cycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[name] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, name)
		return nil
	}

	for _, name := range g.Names() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// cycleError constructs an error carrying the participating cycle path.
func (g *Graph) cycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := ""
	for i := start; i >= 0 && i < len(path); i++ {
		cycle += path[i] + " -> "
	}
	cycle += dep
	return zerr.With(ErrDependencyCycle, "cycle", cycle)
}

// Walk returns an iterator over the builds in topological order: every
// project is yielded after all of its dependencies. Walk requires a prior
// successful Validate.
func (g *Graph) Walk() iter.Seq[*ProjectBuild] {
	return func(yield func(*ProjectBuild) bool) {
		for _, name := range g.order {
			if !yield(g.nodes[name]) {
				return
			}
		}
	}
}
