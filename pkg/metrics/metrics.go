// Package metrics provides Prometheus counters for generator run accounting.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Manager manages all Prometheus metrics for a generation run.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	// Generation accounting
	eventsGenerated *prometheus.CounterVec // by stream: raw|flat
	usersGenerated  prometheus.Counter
	rowsWritten     *prometheus.CounterVec // by table
	artifactsOut    *prometheus.CounterVec // by format: csv|jsonl|columnar|json
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "gamock",
		subsystem: "generator",
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.eventsGenerated = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_generated_total",
		Help:      "Number of synthetic events generated, by stream.",
	}, []string{"stream"})

	m.usersGenerated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_generated_total",
		Help:      "Number of synthetic users generated.",
	})

	m.rowsWritten = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_written_total",
		Help:      "Number of rows written to output tables, by table.",
	}, []string{"table"})

	m.artifactsOut = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifacts_written_total",
		Help:      "Number of output artifacts written, by format.",
	}, []string{"format"})

	return m
}

// AddEventsGenerated records generated events for a stream (raw or flat).
func (m *Manager) AddEventsGenerated(stream string, n int) {
	m.eventsGenerated.WithLabelValues(stream).Add(float64(n))
}

// AddUsersGenerated records generated users.
func (m *Manager) AddUsersGenerated(n int) {
	m.usersGenerated.Add(float64(n))
}

// AddRowsWritten records rows written to a named output table.
func (m *Manager) AddRowsWritten(table string, n int) {
	m.rowsWritten.WithLabelValues(table).Add(float64(n))
}

// AddArtifactWritten records one written artifact of the given format.
func (m *Manager) AddArtifactWritten(format string) {
	m.artifactsOut.WithLabelValues(format).Add(1)
}

// Snapshot gathers the registry and flattens counter values into a
// name{labels} -> value map, used for the end-of-run summary log.
func (m *Manager) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	families, err := m.registry.Gather()
	if err != nil {
		return out
	}
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			out[flatName(fam.GetName(), metric)] = metric.GetCounter().GetValue()
		}
	}
	return out
}

// flatName renders a metric name with its sorted label values appended.
func flatName(name string, m *dto.Metric) string {
	labels := m.GetLabel()
	if len(labels) == 0 {
		return name
	}
	vals := make([]string, 0, len(labels))
	for _, l := range labels {
		vals = append(vals, l.GetValue())
	}
	sort.Strings(vals)
	for _, v := range vals {
		name += "_" + v
	}
	return name
}
