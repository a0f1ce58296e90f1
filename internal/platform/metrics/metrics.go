// Package metrics exposes Prometheus collectors for feed cycles, provider
// fetches and the live stream.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/hoops-feed/internal/platform/resilience"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

type Option func(*Recorder)

func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Recorder) { r.runtime = true }
}

// Recorder owns a private registry so tests and the server never collide on
// the global default registerer.
type Recorder struct {
	namespace string
	buckets   []float64
	runtime   bool
	registry  *prometheus.Registry

	fetches         *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	cycles          *prometheus.CounterVec
	cycleFailures   *prometheus.CounterVec
	cycleDuration   *prometheus.HistogramVec
	identityMisses  *prometheus.CounterVec
	triggersDropped *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
	streamClients   prometheus.Gauge
}

var _ usecase.Metrics = (*Recorder)(nil)

func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "hoops_feed",
		buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "provider_fetch_total",
		Help:      "Provider fetches by outcome.",
	}, []string{"provider", "kind", "outcome"})
	r.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "provider_fetch_duration_seconds",
		Help:      "Provider fetch latency including decode.",
		Buckets:   r.buckets,
	}, []string{"provider", "kind"})
	r.cycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "aggregation_cycles_total",
		Help:      "Completed aggregation cycles.",
	}, []string{"feed"})
	r.cycleFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "aggregation_provider_failures_total",
		Help:      "Provider failures recorded on completed cycles.",
	}, []string{"feed"})
	r.cycleDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "aggregation_cycle_duration_seconds",
		Help:      "Wall time from cycle start to settlement.",
		Buckets:   r.buckets,
	}, []string{"feed"})
	r.identityMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "identity_resolution_miss_total",
		Help:      "Team names that fell back to a slug identity.",
	}, []string{"provider"})
	r.triggersDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "feed_triggers_dropped_total",
		Help:      "Triggers dropped because a cycle was already in flight.",
	}, []string{"feed"})
	r.breakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "provider_circuit_state",
		Help:      "Circuit breaker state per provider: 0 closed, 1 half open, 2 open.",
	}, []string{"provider"})
	r.streamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "stream_clients",
		Help:      "Connected dashboard stream clients.",
	})

	r.registry.MustRegister(
		r.fetches, r.fetchDuration,
		r.cycles, r.cycleFailures, r.cycleDuration,
		r.identityMisses, r.triggersDropped,
		r.breakerState, r.streamClients,
	)
	if r.runtime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) ObserveFetch(provider string, kind usecase.ProviderKind, outcome string, elapsed time.Duration) {
	r.fetches.WithLabelValues(provider, string(kind), outcome).Inc()
	r.fetchDuration.WithLabelValues(provider, string(kind)).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveCycle(feed string, failures int, elapsed time.Duration) {
	r.cycles.WithLabelValues(feed).Inc()
	if failures > 0 {
		r.cycleFailures.WithLabelValues(feed).Add(float64(failures))
	}
	r.cycleDuration.WithLabelValues(feed).Observe(elapsed.Seconds())
}

func (r *Recorder) IdentityMiss(provider string) {
	r.identityMisses.WithLabelValues(provider).Inc()
}

func (r *Recorder) TriggerDropped(feed string) {
	r.triggersDropped.WithLabelValues(feed).Inc()
}

// BreakerStateChanged matches resilience.StateListener.
func (r *Recorder) BreakerStateChanged(provider string, _, to resilience.CircuitState) {
	value := 0.0
	switch to {
	case resilience.CircuitStateHalfOpen:
		value = 1
	case resilience.CircuitStateOpen:
		value = 2
	}
	r.breakerState.WithLabelValues(provider).Set(value)
}

func (r *Recorder) StreamClients(n int) {
	r.streamClients.Set(float64(n))
}
