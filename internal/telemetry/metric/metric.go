// Package metric provides Prometheus metrics for pollrelay.
//
// It exposes session lifecycle counts, mailbox throughput, and HTTP
// request latencies in Prometheus format on /metrics.
package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Session lifecycle
	SessionsActive     prometheus.Gauge
	SessionsRegistered prometheus.Counter
	SessionsEvicted    prometheus.Counter

	// Mailbox throughput
	MessagesEnqueued  prometheus.Counter
	MessagesDelivered prometheus.Counter
	MessagesAcked     prometheus.Counter
	MessagesInbound   prometheus.Counter

	// HTTP surface
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewRegistry creates a metrics registry backed by its own Prometheus
// registry, so tests can create registries without collisions.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pollrelay_sessions_active",
			Help: "Number of currently registered sessions.",
		}),
		SessionsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollrelay_sessions_registered_total",
			Help: "Total number of successful registrations.",
		}),
		SessionsEvicted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollrelay_sessions_evicted_total",
			Help: "Total number of sessions evicted by liveness timeout.",
		}),
		MessagesEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollrelay_messages_enqueued_total",
			Help: "Total number of outbound messages enqueued.",
		}),
		MessagesDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollrelay_messages_delivered_total",
			Help: "Total number of outbound messages handed to fetch calls (includes redeliveries).",
		}),
		MessagesAcked: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollrelay_messages_acked_total",
			Help: "Total number of outbound messages acknowledged and removed.",
		}),
		MessagesInbound: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollrelay_messages_inbound_total",
			Help: "Total number of inbound messages raised to the application layer.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pollrelay_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),

		gatherer: reg,
	}
}

// ObserveRequest records one HTTP request into the duration histogram.
func (r *Registry) ObserveRequest(route string, status int, d time.Duration) {
	r.RequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying Prometheus gatherer for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.gatherer
}
