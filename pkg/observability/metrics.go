package observability

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/ports"
)

const namespace = "pathfinder"

// Generation outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeStale   = "stale"
)

// Metrics holds the Prometheus collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	transitions  *prometheus.CounterVec
	categoryHits *prometheus.CounterVec
	finals       prometheus.Counter
	generations  *prometheus.CounterVec
	genDuration  prometheus.Histogram
	assistCalls  *prometheus.CounterVec
	sessions     prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry, including the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Navigator transitions by kind.",
		}, []string{"kind"}),
		categoryHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_selections_total",
			Help:      "Top-level categories chosen by operators.",
		}, []string{"category"}),
		finals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "final_steps_reached_total",
			Help:      "Transitions that landed on a terminal step.",
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "script_generations_total",
			Help:      "Communication script generations by outcome.",
		}, []string{"outcome"}),
		genDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "script_generation_duration_seconds",
			Help:      "Duration of communication script generation calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		assistCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_calls_total",
			Help:      "Audited assistant calls by tool and result.",
		}, []string{"tool", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Navigation sessions currently held by the server.",
		}),
	}

	m.registry.MustRegister(
		m.transitions, m.categoryHits, m.finals, m.generations, m.genDuration, m.assistCalls, m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record navigator activity.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.Kind)).Inc()
			// A select that produced a one-segment path picked a category.
			if e.Kind == domain.TransitionSelect && len(e.Path) == 1 && e.Resolved {
				m.categoryHits.WithLabelValues(e.Path[0]).Inc()
			}
			if e.Final {
				m.finals.Inc()
			}
		},
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			outcome := OutcomeSuccess
			switch {
			case e.Stale:
				outcome = OutcomeStale
			case e.Failed:
				outcome = OutcomeFailed
			}
			m.generations.WithLabelValues(outcome).Inc()
			m.genDuration.Observe(e.Duration.Seconds())
		},
	}
}

// SetActiveSessions reports the current number of sessions.
func (m *Metrics) SetActiveSessions(n int) {
	m.sessions.Set(float64(n))
}

// Sink wraps next so every recorded assistant call is also counted.
func (m *Metrics) Sink(next ports.LogSink) ports.LogSink {
	return &countingSink{next: next, calls: m.assistCalls}
}

type countingSink struct {
	next  ports.LogSink
	calls *prometheus.CounterVec
}

func (s *countingSink) Record(tool string, input any, outcome string) {
	result := "success"
	if strings.HasPrefix(outcome, domain.OutcomeError) {
		result = "error"
	}
	s.calls.WithLabelValues(tool, result).Inc()
	if s.next != nil {
		s.next.Record(tool, input, outcome)
	}
}
