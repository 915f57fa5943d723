package metrics

import (
	"strconv"
	"time"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// RecordGraphLoad records a graph load attempt. nodes and edges are only
// used when err is nil.
func (r *Registry) RecordGraphLoad(duration time.Duration, nodes, edges int, err error) {
	r.GraphsLoadedTotal.WithLabelValues(status(err)).Inc()
	r.GraphLoadDuration.Observe(duration.Seconds())
	if err == nil {
		r.GraphNodes.Set(float64(nodes))
		r.GraphEdges.Set(float64(edges))
	}
}

// RecordCommunity records one scored community
func (r *Registry) RecordCommunity(size int, conductance float64, err error) {
	r.CommunitiesScoredTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	r.CommunitySize.Observe(float64(size))
	r.CommunityConductance.Observe(conductance)
}

// RecordSweepPoint records the outcome of one sweep parameter
func (r *Registry) RecordSweepPoint(param, mean float64, err error) {
	r.SweepPointsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		r.SweepPointMeanConductance.WithLabelValues(strconv.FormatFloat(param, 'g', -1, 64)).Set(mean)
	}
}
