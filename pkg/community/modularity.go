package community

import (
	"math"

	gonum "gonum.org/v1/gonum/graph"
	gcommunity "gonum.org/v1/gonum/graph/community"

	"github.com/dd0wney/cluso-conductance/pkg/graph"
)

// Modularity returns the Newman modularity Q of communities over g at the
// given resolution (1 is the classic definition). Self-loop weight is not
// part of the computation. communities must partition g.
func Modularity(g *graph.Graph, communities []Community, resolution float64) (float64, error) {
	if err := CheckPartition(g, communities); err != nil {
		return 0, err
	}

	parts := make([][]gonum.Node, len(communities))
	for i, c := range communities {
		parts[i] = make([]gonum.Node, len(c.Nodes))
		for j, id := range c.Nodes {
			n, _ := g.NodeFor(id)
			parts[i][j] = n
		}
	}
	q := gcommunity.Q(g.Gonum(), parts, resolution)
	if math.IsNaN(q) || math.IsInf(q, 0) {
		// no weighted edges between distinct nodes
		return 0, nil
	}
	return q, nil
}
