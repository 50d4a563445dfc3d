package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-equity/internal/types"
)

// Metrics holds the counters shared by the bus, the strategies and the orchestrator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	EventsPublished *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec
	PipelineRuns    *prometheus.CounterVec
	Decisions       *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "argo_events_published_total", Help: "Events published on the bus"},
			[]string{"type"},
		),
		HandlerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "argo_handler_failures_total", Help: "Bus handlers that returned an error or panicked"},
			[]string{"type"},
		),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "argo_pipeline_runs_total", Help: "Strategy pipeline runs"},
			[]string{"strategy", "passed"},
		),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "argo_decisions_total", Help: "Decisions emitted by strategies"},
			[]string{"strategy", "action"},
		),
	}

	for _, c := range []prometheus.Collector{m.EventsPublished, m.HandlerFailures, m.PipelineRuns, m.Decisions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// EventPublished counts one published event.
func (m *Metrics) EventPublished(eventType types.EventType) {
	if m == nil {
		return
	}

	m.EventsPublished.WithLabelValues(string(eventType)).Inc()
}

// HandlerFailed counts one failed handler invocation.
func (m *Metrics) HandlerFailed(eventType types.EventType) {
	if m == nil {
		return
	}

	m.HandlerFailures.WithLabelValues(string(eventType)).Inc()
}

// PipelineRan counts one pipeline run and its outcome.
func (m *Metrics) PipelineRan(strategy string, passed bool) {
	if m == nil {
		return
	}

	m.PipelineRuns.WithLabelValues(strategy, strconv.FormatBool(passed)).Inc()
}

// DecisionEmitted counts one emitted decision.
func (m *Metrics) DecisionEmitted(strategy string, action types.Action) {
	if m == nil {
		return
	}

	m.Decisions.WithLabelValues(strategy, string(action)).Inc()
}
