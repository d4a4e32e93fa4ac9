package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/sampling"
)

// Metrics records sampling runs and cache lookups.
type Metrics struct {
	runs      *prometheus.CounterVec
	samples   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	rejection *prometheus.GaugeVec
	cache     *prometheus.CounterVec
}

// NewMetrics registers the bayesnet metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesnet_inference_runs_total",
			Help: "Total number of inference runs by algorithm and outcome",
		}, []string{"algorithm", "outcome"}),
		samples: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesnet_samples_total",
			Help: "Total number of generated samples by algorithm and fate",
		}, []string{"algorithm", "fate"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bayesnet_inference_duration_seconds",
			Help:    "Duration of inference runs",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"algorithm"}),
		rejection: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bayesnet_rejection_ratio",
			Help: "Share of samples rejected in the most recent run",
		}, []string{"algorithm"}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesnet_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRun implements sampling.Observer.
func (m *Metrics) ObserveRun(s sampling.Stats) {
	alg := string(s.Algorithm)
	m.runs.WithLabelValues(alg, outcome(s.Err)).Inc()
	m.samples.WithLabelValues(alg, "accepted").Add(float64(s.Accepted))
	m.samples.WithLabelValues(alg, "rejected").Add(float64(s.Rejected))
	m.samples.WithLabelValues(alg, "burn_in").Add(float64(s.BurnIn))
	m.duration.WithLabelValues(alg).Observe(s.Duration.Seconds())
	if s.Generated > 0 {
		m.rejection.WithLabelValues(alg).Set(float64(s.Rejected) / float64(s.Generated))
	}
}

// ObserveCache records a result-cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.cache.WithLabelValues("hit").Inc()
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoEvidenceSupport):
		return "no_support"
	case errors.Is(err, domain.ErrChainStuck):
		return "chain_stuck"
	default:
		return "error"
	}
}

var _ sampling.Observer = (*Metrics)(nil)
