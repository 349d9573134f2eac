package dashboard

import (
	"time"

	"unemployment/internal/chart"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the dashboard's collectors on a private registry so that
// several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	chartsRendered    *prometheus.CounterVec
	renderSeconds     *prometheus.HistogramVec
	selectionRejected *prometheus.CounterVec
}

// NewMetrics registers the dashboard collectors plus the Go and process
// collectors on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "charts_rendered_total",
			Help:      "Charts rendered, by chart kind and output format.",
		}, []string{"kind", "format"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "chart_render_seconds",
			Help:      "Time spent building and rendering a chart.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		selectionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "selection_rejected_total",
			Help:      "Chart requests refused because of the selection.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.chartsRendered,
		m.renderSeconds,
		m.selectionRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeRender(kind chart.Kind, format chart.Format, d time.Duration) {
	m.chartsRendered.WithLabelValues(string(kind), string(format)).Inc()
	m.renderSeconds.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func (m *Metrics) rejected(reason string) {
	m.selectionRejected.WithLabelValues(reason).Inc()
}
