package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

const metricsNamespace = "phishguard"

// metrics holds the collectors exported on /metrics.
type metrics struct {
	registry *prometheus.Registry

	scores          *prometheus.CounterVec
	reportsReceived prometheus.Counter
	linksScanned    prometheus.Counter
	requests        *prometheus.CounterVec
}

// newMetrics registers the server collectors on a fresh registry, so several
// servers can live in one process.
func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scores_total",
			Help:      "URLs scored, by label.",
		}, []string{"label"}),
		reportsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reports_received_total",
			Help:      "Phishing reports accepted.",
		}),
		linksScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "page_links_scanned_total",
			Help:      "Links extracted from submitted pages and scored.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route pattern and method.",
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		m.scores,
		m.reportsReceived,
		m.linksScanned,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Pre-create label values so every label shows up at zero.
	for _, l := range []model.Label{model.LabelSafe, model.LabelCaution, model.LabelHighRisk} {
		m.scores.WithLabelValues(l.String())
	}

	return m
}

func (m *metrics) observeScore(res model.ScoreResult) {
	m.scores.WithLabelValues(res.Label.String()).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
