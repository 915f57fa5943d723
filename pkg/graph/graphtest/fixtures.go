// Package graphtest builds small labelled graphs for tests.
package graphtest

import (
	"fmt"

	"github.com/dd0wney/cluso-conductance/pkg/graph"
)

// ModularityClass is the attribute name Gephi writes for community labels
const ModularityClass = "Modularity Class"

// TwoCliques returns two cliques of the given size joined by a single bridge
// edge between "a0" and "b0". Clique a is labelled 0 and clique b 1 under
// ModularityClass; every edge has weight 1.
func TwoCliques(size int) *graph.Graph {
	b := graph.NewBuilder()
	for c, prefix := range []string{"a", "b"} {
		for i := 0; i < size; i++ {
			mustAddNode(b, fmt.Sprintf("%s%d", prefix, i), map[string]graph.Value{
				ModularityClass: graph.IntValue(int64(c)),
			})
		}
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				mustAddEdge(b, fmt.Sprintf("%s%d", prefix, i), fmt.Sprintf("%s%d", prefix, j), 1)
			}
		}
	}
	mustAddEdge(b, "a0", "b0", 1)
	return b.Build()
}

// Edge is an undirected weighted edge for Build
type Edge struct {
	From, To string
	Weight   float64
}

// Build creates a graph whose nodes are labelled by labels (node id → class)
// in the order of ids. Nodes missing from labels carry no attribute.
func Build(ids []string, labels map[string]int64, edges []Edge) *graph.Graph {
	b := graph.NewBuilder()
	for _, id := range ids {
		attrs := map[string]graph.Value{}
		if l, ok := labels[id]; ok {
			attrs[ModularityClass] = graph.IntValue(l)
		}
		mustAddNode(b, id, attrs)
	}
	for _, e := range edges {
		mustAddEdge(b, e.From, e.To, e.Weight)
	}
	return b.Build()
}

func mustAddNode(b *graph.Builder, id string, attrs map[string]graph.Value) {
	if err := b.AddNode(id, attrs); err != nil {
		panic(err)
	}
}

func mustAddEdge(b *graph.Builder, from, to string, w float64) {
	if err := b.AddEdge(from, to, w); err != nil {
		panic(err)
	}
}
