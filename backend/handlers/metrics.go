// ABOUTME: Prometheus collectors for analysis outcomes and upstream cache efficiency
// ABOUTME: A nil collector set makes every observation a no-op

package handlers

import (
	"github.com/amazingchow/LLMToolset/backend/cache"
	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type analysisMetrics struct {
	analyses    *prometheus.CounterVec
	utilization *prometheus.HistogramVec
}

func newAnalysisMetrics(reg prometheus.Registerer, stats func() cache.Stats) *analysisMetrics {
	factory := promauto.With(reg)

	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "gpu_memory_upstream_cache_hits_total",
		Help: "Calculation service lookups served from cache",
	}, func() float64 { return float64(stats().Hits) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "gpu_memory_upstream_cache_misses_total",
		Help: "Calculation service lookups that missed the cache",
	}, func() float64 { return float64(stats().Misses) })

	return &analysisMetrics{
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gpu_memory_analyses_total",
			Help: "Derived-state computations by calculation type and utilization tier",
		}, []string{"type", "tier"}),
		utilization: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gpu_memory_utilization_percent",
			Help:    "Raw (unclamped) utilization of analyzed configurations",
			Buckets: []float64{25, 50, 70, 80, 90, 100, 150, 200, 400},
		}, []string{"type"}),
	}
}

func (m *analysisMetrics) observe(state models.DerivedState) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(state.CalculationType), state.Tier.String()).Inc()
	m.utilization.WithLabelValues(string(state.CalculationType)).Observe(state.RawUtilizationPercent)
}
