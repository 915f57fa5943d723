// Package conductance scores node sets by cut conductance:
//
//	phi(S) = cut(S, V\S) / min(vol(S), vol(V\S))
//
// where vol is the summed weighted degree. Lower is a better separated set.
package conductance

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-conductance/pkg/community"
	"github.com/dd0wney/cluso-conductance/pkg/graph"
	"github.com/dd0wney/cluso-conductance/pkg/logging"
	"github.com/dd0wney/cluso-conductance/pkg/metrics"
	"github.com/dd0wney/cluso-conductance/pkg/parallel"
)

// ErrDegenerateCommunity matches every *DegenerateCommunityError
var ErrDegenerateCommunity = errors.New("conductance undefined for community")

// DegenerateCommunityError reports a set whose conductance has no finite
// value: it is empty, covers the whole graph, or one side has zero volume.
type DegenerateCommunityError struct {
	Size             int
	GraphSize        int
	Volume           float64
	ComplementVolume float64
}

func (e *DegenerateCommunityError) Error() string {
	switch {
	case e.Size == 0:
		return "conductance undefined: empty community"
	case e.Size == e.GraphSize:
		return fmt.Sprintf("conductance undefined: community covers all %d nodes", e.GraphSize)
	default:
		return fmt.Sprintf("conductance undefined: zero volume (community %g, complement %g)",
			e.Volume, e.ComplementVolume)
	}
}

func (e *DegenerateCommunityError) Is(target error) bool { return target == ErrDegenerateCommunity }

// Cut is the breakdown behind a conductance value. Both volumes are summed
// directly from node degrees, so a side made only of isolated nodes has a
// volume of exactly zero.
type Cut struct {
	Size             int
	GraphSize        int
	Weight           float64
	Volume           float64
	ComplementVolume float64
}

// Degenerate reports whether conductance is undefined for the cut
func (c Cut) Degenerate() bool {
	return c.Size == 0 || c.Size == c.GraphSize || min(c.Volume, c.ComplementVolume) <= 0
}

// Conductance returns Weight / min(Volume, ComplementVolume), or a
// *DegenerateCommunityError when that ratio is undefined.
func (c Cut) Conductance() (float64, error) {
	if c.Degenerate() {
		return 0, &DegenerateCommunityError{
			Size:             c.Size,
			GraphSize:        c.GraphSize,
			Volume:           c.Volume,
			ComplementVolume: c.ComplementVolume,
		}
	}
	// cut never exceeds either volume; clamp summation rounding
	return min(c.Weight/min(c.Volume, c.ComplementVolume), 1), nil
}

// Breakdown measures the cut around nodes. Repeated ids count once; unknown
// ids wrap graph.ErrNodeNotFound.
func Breakdown(g *graph.Graph, nodes []string) (Cut, error) {
	distinct := make(map[string]struct{}, len(nodes))
	for _, id := range nodes {
		if !g.HasNode(id) {
			return Cut{}, fmt.Errorf("%w: %q", graph.ErrNodeNotFound, id)
		}
		distinct[id] = struct{}{}
	}

	all := g.Nodes()
	complement := make([]string, 0, len(all)-len(distinct))
	for _, id := range all {
		if _, inside := distinct[id]; !inside {
			complement = append(complement, id)
		}
	}

	vol, err := g.Volume(nodes)
	if err != nil {
		return Cut{}, err
	}
	compVol, err := g.Volume(complement)
	if err != nil {
		return Cut{}, err
	}
	w, err := g.CutWeight(nodes)
	if err != nil {
		return Cut{}, err
	}
	return Cut{
		Size:             len(distinct),
		GraphSize:        len(all),
		Weight:           w,
		Volume:           vol,
		ComplementVolume: compVol,
	}, nil
}

// Conductance returns the conductance of nodes in g. The result is always
// finite and within [0, 1]; sets where it is undefined return a
// *DegenerateCommunityError.
func Conductance(g *graph.Graph, nodes []string) (float64, error) {
	c, err := Breakdown(g, nodes)
	if err != nil {
		return 0, err
	}
	return c.Conductance()
}

// Evaluator scores communities and records each score. Workers above 1
// scores communities concurrently; results keep community order either way.
type Evaluator struct {
	Metrics *metrics.Registry
	Logger  logging.Logger
	Workers int
}

// Evaluate returns the conductance of each community, in order. The error of
// the first failing community names its index and label.
func (e Evaluator) Evaluate(g *graph.Graph, communities []community.Community) ([]float64, error) {
	if e.Workers > 1 {
		return e.evaluateParallel(g, communities)
	}
	scores := make([]float64, 0, len(communities))
	for i, c := range communities {
		phi, err := e.score(g, i, c)
		if err != nil {
			return nil, err
		}
		scores = append(scores, phi)
	}
	return scores, nil
}

func (e Evaluator) evaluateParallel(g *graph.Graph, communities []community.Community) ([]float64, error) {
	scores := make([]float64, len(communities))
	err := parallel.ForEach(e.Workers, len(communities), func(i int) error {
		phi, err := e.score(g, i, communities[i])
		scores[i] = phi
		return err
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (e Evaluator) score(g *graph.Graph, i int, c community.Community) (float64, error) {
	phi, err := Conductance(g, c.Nodes)
	if e.Metrics != nil {
		e.Metrics.RecordCommunity(c.Size(), phi, err)
	}
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("community not scored",
				logging.Community(i),
				logging.String("label", c.Label.String()),
				logging.Int("size", c.Size()),
				logging.Error(err),
			)
		}
		return 0, fmt.Errorf("community %d (label %s): %w", i, c.Label, err)
	}
	return phi, nil
}

// Evaluate scores communities without recording metrics
func Evaluate(g *graph.Graph, communities []community.Community) ([]float64, error) {
	return Evaluator{}.Evaluate(g, communities)
}
