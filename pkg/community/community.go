// Package community groups the nodes of a graph into the communities recorded
// by an external clustering run.
package community

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/dd0wney/cluso-conductance/pkg/graph"
)

// ModularityClass is the attribute Gephi writes for its modularity clustering
const ModularityClass = "Modularity Class"

var (
	ErrMissingAttribute = errors.New("node has no community attribute")
	ErrNotPartition     = errors.New("communities do not partition the graph")
)

// MissingAttributeError reports the first node without the community attribute
type MissingAttributeError struct {
	NodeID    string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("node %q has no %q attribute", e.NodeID, e.Attribute)
}

func (e *MissingAttributeError) Is(target error) bool { return target == ErrMissingAttribute }

// Community is the set of nodes sharing one label
type Community struct {
	Label graph.Value
	Nodes []string
}

// Size returns the number of nodes in the community
func (c Community) Size() int { return len(c.Nodes) }

// Extract groups every node of g by its value of attribute. Communities are
// ordered by the first node carrying each label and keep graph node order.
// Labels of different kinds never merge: int 3 and float 3 are two
// communities.
func Extract(g *graph.Graph, attribute string) ([]Community, error) {
	groups := linkedhashmap.New()
	for _, id := range g.Nodes() {
		label, ok := g.Attribute(id, attribute)
		if !ok {
			return nil, &MissingAttributeError{NodeID: id, Attribute: attribute}
		}

		key := label.Key()
		if existing, found := groups.Get(key); found {
			c := existing.(*Community)
			c.Nodes = append(c.Nodes, id)
			continue
		}
		groups.Put(key, &Community{Label: label, Nodes: []string{id}})
	}

	communities := make([]Community, 0, groups.Size())
	it := groups.Iterator()
	for it.Next() {
		communities = append(communities, *it.Value().(*Community))
	}
	return communities, nil
}

// CheckPartition verifies that communities are non-empty, pairwise disjoint
// and together cover every node of g.
func CheckPartition(g *graph.Graph, communities []Community) error {
	owner := make(map[string]int, g.NodeCount())
	for i, c := range communities {
		if c.Size() == 0 {
			return fmt.Errorf("%w: community %d (%s) is empty", ErrNotPartition, i, c.Label)
		}
		for _, id := range c.Nodes {
			if !g.HasNode(id) {
				return fmt.Errorf("%w: community %d: %w: %q", ErrNotPartition, i, graph.ErrNodeNotFound, id)
			}
			if prev, dup := owner[id]; dup {
				return fmt.Errorf("%w: node %q is in communities %d and %d", ErrNotPartition, id, prev, i)
			}
			owner[id] = i
		}
	}
	if len(owner) != g.NodeCount() {
		return fmt.Errorf("%w: %d of %d nodes assigned", ErrNotPartition, len(owner), g.NodeCount())
	}
	return nil
}
