package preview

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records render counts and durations. It implements
// render.Observer so the exporter can report every render it performs.
type Metrics struct {
	registry *prometheus.Registry
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	clients  prometheus.Gauge
}

// NewMetrics registers the collectors on a private registry together with
// the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emailbuilder",
			Name:      "renders_total",
			Help:      "Renders by output format and result.",
		}, []string{"format", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "emailbuilder",
			Name:      "render_duration_seconds",
			Help:      "Render latency by output format.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"format"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emailbuilder",
			Name:      "preview_clients",
			Help:      "Connected live-reload clients.",
		}),
	}
	m.registry.MustRegister(
		m.renders,
		m.duration,
		m.clients,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRender(format string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.renders.WithLabelValues(format, result).Inc()
	m.duration.WithLabelValues(format).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
