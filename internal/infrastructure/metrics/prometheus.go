package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WebhookEventsTotal *prometheus.CounterVec
	WebhookDuration    *prometheus.HistogramVec
	WebhookRetries     *prometheus.CounterVec

	CadenceMessagesTotal *prometheus.CounterVec

	SweeperTransitions *prometheus.CounterVec
	SweeperLastRun     prometheus.Gauge
}

// NewMetrics builds a private registry so tests can create several instances.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_events_total",
				Help:      "Webhook events by provider and final status",
			},
			[]string{"provider", "status"},
		),
		WebhookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "webhook_processing_duration_seconds",
				Help:      "Time spent reconciling a webhook event",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		WebhookRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_retries_total",
				Help:      "Webhook events replayed by the retry job",
			},
			[]string{"provider"},
		),

		CadenceMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cadence_messages_total",
				Help:      "Cadence messages by cadence and outcome",
			},
			[]string{"cadence", "status"},
		),

		SweeperTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweeper_transitions_total",
				Help:      "Subscribers moved by the expiry sweeper",
			},
			[]string{"to"},
		),
		SweeperLastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sweeper_last_run_timestamp_seconds",
				Help:      "Unix time of the last completed sweep",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WebhookEventsTotal,
		m.WebhookDuration,
		m.WebhookRetries,
		m.CadenceMessagesTotal,
		m.SweeperTransitions,
		m.SweeperLastRun,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordWebhook(provider, status string, duration time.Duration) {
	m.WebhookEventsTotal.WithLabelValues(provider, status).Inc()
	m.WebhookDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordWebhookRetry(provider string) {
	m.WebhookRetries.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordCadenceMessage(cadence, status string) {
	m.CadenceMessagesTotal.WithLabelValues(cadence, status).Inc()
}

func (m *Metrics) RecordSweep(expired, inactivated int, at time.Time) {
	m.SweeperTransitions.WithLabelValues("vencido").Add(float64(expired))
	m.SweeperTransitions.WithLabelValues("inativo").Add(float64(inactivated))
	m.SweeperLastRun.Set(float64(at.Unix()))
}
