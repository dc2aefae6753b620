// Package metrics provides the Prometheus collectors updated by the reconciler.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "fiber"

// Metrics holds the reconciler's collectors.
type Metrics struct {
	// Renders counts root render passes.
	Renders prometheus.Counter
	// Commits counts root commits.
	Commits prometheus.Counter
	// ComponentRenders counts function component invocations by component name.
	ComponentRenders *prometheus.CounterVec
	// HostMutations counts host operations applied during commit by op.
	HostMutations *prometheus.CounterVec
	// Effects counts passive effect callbacks by phase (create, destroy).
	Effects *prometheus.CounterVec
	// EagerBailouts counts state updates dropped before scheduling because
	// the state did not change.
	EagerBailouts prometheus.Counter
	// RenderDuration observes the duration of render plus commit in seconds.
	RenderDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &Metrics{
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of root render passes",
		}),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Total number of root commits",
		}),
		ComponentRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "component_renders_total",
				Help:      "Total number of function component invocations",
			},
			[]string{"component"},
		),
		HostMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "host_mutations_total",
				Help:      "Total number of host mutations applied during commit",
			},
			[]string{"op"},
		),
		Effects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "passive_effects_total",
				Help:      "Total number of passive effect callbacks run",
			},
			[]string{"phase"},
		),
		EagerBailouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eager_bailouts_total",
			Help:      "Total number of state updates skipped because the state did not change",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of render and commit of one root in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
	}
	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// Unregistered returns collectors that are not exported anywhere.
func Unregistered() *Metrics {
	m, _ := New(DefaultNamespace, nil)
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Renders,
		m.Commits,
		m.ComponentRenders,
		m.HostMutations,
		m.Effects,
		m.EagerBailouts,
		m.RenderDuration,
	}
}
