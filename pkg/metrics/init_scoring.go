package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initScoringMetrics() {
	r.CommunitiesScoredTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "conductance_communities_scored_total",
			Help: "Communities scored, by outcome",
		},
		[]string{"status"},
	)

	r.CommunityConductance = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conductance_community_conductance",
			Help:    "Conductance of scored communities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	r.CommunitySize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conductance_community_size",
			Help:    "Node count of scored communities",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	r.SweepPointsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "conductance_sweep_points_total",
			Help: "Sweep parameter values evaluated, by outcome",
		},
		[]string{"status"},
	)

	r.SweepPointMeanConductance = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conductance_sweep_point_mean",
			Help: "Mean community conductance per sweep parameter",
		},
		[]string{"param"},
	)
}
