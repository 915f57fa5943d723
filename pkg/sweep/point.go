package sweep

import (
	"fmt"

	"github.com/dd0wney/cluso-conductance/pkg/community"
	"github.com/dd0wney/cluso-conductance/pkg/conductance"
	"github.com/dd0wney/cluso-conductance/pkg/graph"
)

// CommunityScore is the conductance of one community
type CommunityScore struct {
	Label       string  `json:"label"`
	Size        int     `json:"size"`
	Conductance float64 `json:"conductance"`
}

// Point is the evaluation of one graph of the sweep
type Point struct {
	Param       float64          `json:"param"`
	Path        string           `json:"path"`
	Nodes       int              `json:"nodes"`
	Edges       int              `json:"edges"`
	Modularity  float64          `json:"modularity"`
	Communities []CommunityScore `json:"communities"`
	Summary
}

// Conductances returns the community scores in community order
func (p Point) Conductances() []float64 {
	out := make([]float64, len(p.Communities))
	for i, c := range p.Communities {
		out[i] = c.Conductance
	}
	return out
}

// EvaluateGraph scores every community of g labelled by attribute and
// summarizes the scores. A graph without nodes yields ErrEmptySweep.
func EvaluateGraph(g *graph.Graph, attribute string) (Point, error) {
	return evaluateGraph(g, attribute, conductance.Evaluator{})
}

func evaluateGraph(g *graph.Graph, attribute string, ev conductance.Evaluator) (Point, error) {
	comms, err := community.Extract(g, attribute)
	if err != nil {
		return Point{}, err
	}
	if len(comms) == 0 {
		return Point{}, ErrEmptySweep
	}

	scores, err := ev.Evaluate(g, comms)
	if err != nil {
		return Point{}, err
	}
	summary, err := Summarize(scores)
	if err != nil {
		return Point{}, err
	}
	q, err := community.Modularity(g, comms, 1)
	if err != nil {
		return Point{}, fmt.Errorf("modularity: %w", err)
	}

	p := Point{
		Nodes:       g.NodeCount(),
		Edges:       g.EdgeCount(),
		Modularity:  q,
		Communities: make([]CommunityScore, len(comms)),
		Summary:     summary,
	}
	for i, c := range comms {
		p.Communities[i] = CommunityScore{Label: c.Label.String(), Size: c.Size(), Conductance: scores[i]}
	}
	return p, nil
}
