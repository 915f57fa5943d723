// Package graph holds the attributed, weighted, undirected graph that the
// conductance pipeline reads. A Graph is immutable once built; adjacency is
// stored in a gonum simple.WeightedUndirectedGraph, which also serves
// gonum's community algorithms directly.
package graph

import (
	"fmt"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is an immutable node-attributed weighted graph.
//
// Node identifiers are the strings found in the source file; internally each
// node is numbered by insertion order, which is also the order Nodes returns.
// Self-loops live outside the gonum graph (which forbids them) and contribute
// twice their weight to the node's weighted degree.
type Graph struct {
	ids    []string
	index  map[string]int64
	attrs  []map[string]Value
	adj    *simple.WeightedUndirectedGraph
	loops  []float64
	degree []float64
	total  float64
	edges  int
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of distinct undirected edges, self-loops included
func (g *Graph) EdgeCount() int { return g.edges }

// Nodes returns node identifiers in insertion order
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Attribute returns the named attribute of a node. The second result is false
// when the node does not exist or does not carry the attribute.
func (g *Graph) Attribute(id, key string) (Value, bool) {
	n, ok := g.index[id]
	if !ok {
		return Value{}, false
	}
	v, ok := g.attrs[n][key]
	return v, ok
}

// WeightedDegree returns the sum of incident edge weights of a node, self-loops
// counted twice.
func (g *Graph) WeightedDegree(id string) (float64, error) {
	n, ok := g.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return g.degree[n], nil
}

// TotalVolume returns the weighted degree summed over every node
func (g *Graph) TotalVolume() float64 { return g.total }

// Volume returns the summed weighted degree of the given nodes. Repeated ids
// are counted once.
func (g *Graph) Volume(nodes []string) (float64, error) {
	set, err := g.resolve(nodes)
	if err != nil {
		return 0, err
	}
	var vol float64
	for n := range set {
		vol += g.degree[n]
	}
	return vol, nil
}

// CutWeight returns the total weight of edges with exactly one endpoint in nodes
func (g *Graph) CutWeight(nodes []string) (float64, error) {
	set, err := g.resolve(nodes)
	if err != nil {
		return 0, err
	}
	return g.cut(set), nil
}

// readOnly hides the mutating methods of the underlying gonum graph, so a
// type assertion on Gonum's result cannot reach SetWeightedEdge or RemoveNode.
type readOnly struct {
	gonum.WeightedUndirected
}

// Gonum exposes the adjacency as a read-only gonum graph. Self-loops are not
// part of it.
func (g *Graph) Gonum() gonum.WeightedUndirected { return readOnly{g.adj} }

// NodeFor returns the gonum node standing for id
func (g *Graph) NodeFor(id string) (gonum.Node, bool) {
	n, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return simple.Node(n), true
}

// IDOf maps a gonum node id back to the source identifier
func (g *Graph) IDOf(n int64) (string, bool) {
	if n < 0 || n >= int64(len(g.ids)) {
		return "", false
	}
	return g.ids[n], true
}

func (g *Graph) resolve(nodes []string) (map[int64]struct{}, error) {
	set := make(map[int64]struct{}, len(nodes))
	for _, id := range nodes {
		n, ok := g.index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
		}
		set[n] = struct{}{}
	}
	return set, nil
}

func (g *Graph) cut(set map[int64]struct{}) float64 {
	var w float64
	for n := range set {
		it := g.adj.From(n)
		for it.Next() {
			m := it.Node().ID()
			if _, inside := set[m]; inside {
				continue
			}
			w += g.adj.WeightedEdge(n, m).Weight()
		}
	}
	return w
}
