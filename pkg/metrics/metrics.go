package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API. Each instance owns its
// registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	PostsCreated   prometheus.Counter
	LikesTotal     *prometheus.CounterVec
	CommentsTotal  *prometheus.CounterVec
	VersionRetries *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devconnector_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PostsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "devconnector_posts_created_total",
			Help: "Total number of posts created",
		}),
		LikesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_post_likes_total",
			Help: "Like and unlike operations applied to posts",
		}, []string{"op"}),
		CommentsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_post_comments_total",
			Help: "Comments added to or removed from posts",
		}, []string{"op"}),
		VersionRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_version_conflict_retries_total",
			Help: "Read-modify-write retries after a stale version, by aggregate",
		}, []string{"aggregate"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) IncrementPostsCreated() {
	if m == nil {
		return
	}
	m.PostsCreated.Inc()
}

func (m *Metrics) IncrementLikes(op string) {
	if m == nil {
		return
	}
	m.LikesTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) IncrementComments(op string) {
	if m == nil {
		return
	}
	m.CommentsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) IncrementVersionRetries(aggregate string) {
	if m == nil {
		return
	}
	m.VersionRetries.WithLabelValues(aggregate).Inc()
}
