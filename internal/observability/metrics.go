package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors shared across the engine.
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	errors       *prometheus.CounterVec
	turnDuration prometheus.Histogram
	outcomes     *prometheus.CounterVec
	faqHits      prometheus.Counter
	created      prometheus.Counter
	closed       prometheus.Counter
}

// NewMetrics registers the engine collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_http_requests_total",
				Help: "Total count of HTTP requests received.",
			},
			[]string{"method", "path", "status"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_http_errors_total",
				Help: "Total count of HTTP error responses by code.",
			},
			[]string{"method", "path", "code"},
		),
		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "support_engine_turn_duration_seconds",
				Help:    "Histogram of conversation turn processing time.",
				Buckets: prometheus.DefBuckets,
			},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "support_engine_turn_outcomes_total",
				Help: "Conversation turns by user-visible outcome.",
			},
			[]string{"outcome"},
		),
		faqHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "support_engine_faq_hits_total",
			Help: "Turns short-circuited by the FAQ fast path.",
		}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "support_engine_tickets_created_total",
			Help: "Tickets created.",
		}),
		closed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "support_engine_tickets_closed_total",
			Help: "Tickets closed (terminal dispatch or operator action).",
		}),
	}

	reg.MustRegister(m.requests, m.errors, m.turnDuration, m.outcomes, m.faqHits, m.created, m.closed)
	return m
}

// RecordRequest increments the HTTP request counter.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordError increments the HTTP error counter.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordTurn records one conversation turn and its outcome label.
func (m *Metrics) RecordTurn(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.turnDuration.Observe(duration.Seconds())
	m.outcomes.WithLabelValues(outcome).Inc()
}

// RecordFAQHit counts a FAQ fast-path short circuit.
func (m *Metrics) RecordFAQHit() {
	if m == nil {
		return
	}
	m.faqHits.Inc()
}

// RecordTicketCreated counts a ticket creation.
func (m *Metrics) RecordTicketCreated() {
	if m == nil {
		return
	}
	m.created.Inc()
}

// RecordTicketClosed counts a ticket close.
func (m *Metrics) RecordTicketClosed() {
	if m == nil {
		return
	}
	m.closed.Inc()
}

// Handler exposes the registry for a /metrics listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
