package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/core/domain"
)

// buildNode constructs a graph node with the given name and dependency names.
func buildNode(name string, deps ...string) *domain.ProjectBuild {
	return &domain.ProjectBuild{
		Config:       domain.ProjectConfig{Name: name, URI: "git://example.com/" + name},
		Dependencies: deps,
	}
}

func TestGraph_AddNode_Duplicate(t *testing.T) {
	g := domain.NewGraph()

	require.NoError(t, g.AddNode(buildNode("core")))

	err := g.AddNode(buildNode("core"))
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrDuplicateProject)
}

func TestGraph_Validate_Cycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []*domain.ProjectBuild
	}{
		{
			name:  "Self Cycle A->A",
			nodes: []*domain.ProjectBuild{buildNode("A", "A")},
		},
		{
			name: "Two Node Cycle A->B->A",
			nodes: []*domain.ProjectBuild{
				buildNode("A", "B"),
				buildNode("B", "A"),
			},
		},
		{
			name: "Three Node Cycle A->B->C->A",
			nodes: []*domain.ProjectBuild{
				buildNode("A", "B"),
				buildNode("B", "C"),
				buildNode("C", "A"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for _, n := range tt.nodes {
				require.NoError(t, g.AddNode(n))
			}

			err := g.Validate()
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrDependencyCycle)
		})
	}
}

func TestGraph_Validate_CycleMessage(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(buildNode("A", "B")))
	require.NoError(t, g.AddNode(buildNode("B", "A")))

	err := g.Validate()
	require.ErrorIs(t, err, domain.ErrDependencyCycle)
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestGraph_Validate_UnknownDependency(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(buildNode("A", "missing")))

	err := g.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnknownDependency)
}

func TestGraph_Walk_Chain(t *testing.T) {
	// A -> B -> C: dependencies are yielded before their dependents.
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(buildNode("A", "B")))
	require.NoError(t, g.AddNode(buildNode("B", "C")))
	require.NoError(t, g.AddNode(buildNode("C")))
	require.NoError(t, g.Validate())

	var order []string
	for b := range g.Walk() {
		order = append(order, b.Name())
	}

	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestGraph_Walk_DiamondRespectsEdges(t *testing.T) {
	// A -> B, A -> C, B -> D, C -> D.
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(buildNode("A", "B", "C")))
	require.NoError(t, g.AddNode(buildNode("B", "D")))
	require.NoError(t, g.AddNode(buildNode("C", "D")))
	require.NoError(t, g.AddNode(buildNode("D")))
	require.NoError(t, g.Validate())

	pos := make(map[string]int)
	i := 0
	for b := range g.Walk() {
		pos[b.Name()] = i
		i++
	}

	require.Len(t, pos, 4)
	assert.Less(t, pos["D"], pos["B"])
	assert.Less(t, pos["D"], pos["C"])
	assert.Less(t, pos["B"], pos["A"])
	assert.Less(t, pos["C"], pos["A"])
}

func TestGraph_Walk_Deterministic(t *testing.T) {
	// Two graphs with identical nodes added in different orders walk
	// in the same order.
	build := func(names ...string) *domain.Graph {
		g := domain.NewGraph()
		for _, n := range names {
			require.NoError(t, g.AddNode(buildNode(n)))
		}
		require.NoError(t, g.Validate())
		return g
	}

	walk := func(g *domain.Graph) []string {
		var order []string
		for b := range g.Walk() {
			order = append(order, b.Name())
		}
		return order
	}

	first := build("zebra", "alpha", "mango")
	second := build("mango", "zebra", "alpha")

	assert.Equal(t, walk(first), walk(second))
	assert.Equal(t, []string{"alpha", "mango", "zebra"}, walk(first))
}

func TestGraph_Names_Sorted(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(buildNode("c")))
	require.NoError(t, g.AddNode(buildNode("a")))
	require.NoError(t, g.AddNode(buildNode("b")))

	assert.Equal(t, []string{"a", "b", "c"}, g.Names())
	assert.Equal(t, 3, g.Len())
}
