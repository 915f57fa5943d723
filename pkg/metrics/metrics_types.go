package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the sweep pipeline metrics
type Registry struct {
	// Load Metrics
	GraphsLoadedTotal *prometheus.CounterVec
	GraphLoadDuration prometheus.Histogram
	GraphNodes        prometheus.Gauge
	GraphEdges        prometheus.Gauge

	// Scoring Metrics
	CommunitiesScoredTotal    *prometheus.CounterVec
	CommunityConductance      prometheus.Histogram
	CommunitySize             prometheus.Histogram
	SweepPointsTotal          *prometheus.CounterVec
	SweepPointMeanConductance *prometheus.GaugeVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry, created on first use
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry backed by its own prometheus.Registry
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initLoadMetrics()
	r.initScoringMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
