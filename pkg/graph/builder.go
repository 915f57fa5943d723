package graph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/simple"
)

// Builder accumulates nodes and edges and freezes them into a Graph.
// Edges are undirected; repeating an edge adds its weight to the existing one.
type Builder struct {
	g      *Graph
	looped map[int64]bool
	built  bool
}

func NewBuilder() *Builder {
	return &Builder{
		g: &Graph{
			index: make(map[string]int64),
			adj:   simple.NewWeightedUndirectedGraph(0, 0),
		},
		looped: make(map[int64]bool),
	}
}

// AddNode registers a node. attrs is copied.
func (b *Builder) AddNode(id string, attrs map[string]Value) error {
	if b.built {
		return ErrBuilt
	}
	if id == "" {
		return ErrEmptyNodeID
	}
	if _, exists := b.g.index[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}

	n := int64(len(b.g.ids))
	b.g.index[id] = n
	b.g.ids = append(b.g.ids, id)
	b.g.loops = append(b.g.loops, 0)
	b.g.degree = append(b.g.degree, 0)

	copied := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	b.g.attrs = append(b.g.attrs, copied)
	b.g.adj.AddNode(simple.Node(n))
	return nil
}

// HasNode reports whether id was already added
func (b *Builder) HasNode(id string) bool {
	_, ok := b.g.index[id]
	return ok
}

// AddEdge connects two existing nodes
func (b *Builder) AddEdge(from, to string, weight float64) error {
	if b.built {
		return ErrBuilt
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: %v on %q-%q", ErrBadWeight, weight, from, to)
	}
	u, ok := b.g.index[from]
	if !ok {
		return fmt.Errorf("%w: edge source %q", ErrNodeNotFound, from)
	}
	v, ok := b.g.index[to]
	if !ok {
		return fmt.Errorf("%w: edge target %q", ErrNodeNotFound, to)
	}

	if u == v {
		if !b.looped[u] {
			b.looped[u] = true
			b.g.edges++
		}
		b.g.loops[u] += weight
		b.g.degree[u] += 2 * weight
		b.g.total += 2 * weight
		return nil
	}

	w := weight
	if e := b.g.adj.WeightedEdge(u, v); e != nil {
		w += e.Weight()
	} else {
		b.g.edges++
	}
	b.g.adj.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
	b.g.degree[u] += weight
	b.g.degree[v] += weight
	b.g.total += 2 * weight
	return nil
}

// Build returns the finished Graph. The builder cannot be used afterwards.
func (b *Builder) Build() *Graph {
	b.built = true
	return b.g
}
