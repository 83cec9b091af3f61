package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests          *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	Registrations     prometheus.Counter
	FailedLogins      prometheus.Counter
	PostsCreated      prometheus.Counter
	Likes             prometheus.Counter
	FriendshipToggles *prometheus.CounterVec
}

// New registers the collectors on a private registry so several servers can
// live in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of successful registrations",
		}),
		FailedLogins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logins_failed_total",
			Help: "Total number of rejected login attempts",
		}),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of created posts",
		}),
		Likes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "post_likes_total",
			Help: "Total number of likes",
		}),
		FriendshipToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friendship_toggles_total",
				Help: "Total number of friendship toggles by resulting state",
			},
			[]string{"state"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.Registrations,
		m.FailedLogins,
		m.PostsCreated,
		m.Likes,
		m.FriendshipToggles,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
