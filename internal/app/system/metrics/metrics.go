// Package metrics collects application counters and exposes them for
// Prometheus scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess     = "success"
	LoginBadPassword = "bad_credentials"
	LoginBadAdminID  = "bad_admin_id"
	LoginRateLimited = "rate_limited"
)

// Join results.
const (
	JoinAdded   = "joined"
	JoinAlready = "already_member"
)

// Club mutations.
const (
	ClubCreated      = "create"
	ClubUpdated      = "update"
	ClubDeleted      = "delete"
	EventAdded       = "add_event"
	AnnouncementPost = "add_announcement"
)

// Collector holds the application's Prometheus metrics. Every method is
// safe on a nil *Collector so handlers and tests can run without one.
type Collector struct {
	signups       *prometheus.CounterVec
	logins        *prometheus.CounterVec
	joins         *prometheus.CounterVec
	clubMutations *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_signups_total",
			Help: "Accounts created, by role.",
		}, []string{"role"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_logins_total",
			Help: "Login attempts, by outcome.",
		}, []string{"outcome"}),
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_club_joins_total",
			Help: "Join-club requests, by result.",
		}, []string{"result"}),
		clubMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_club_mutations_total",
			Help: "Club writes, by action.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_http_requests_total",
			Help: "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.joins,
		c.clubMutations,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

// RecordSignup counts a created account.
func (c *Collector) RecordSignup(role string) {
	if c == nil {
		return
	}
	c.signups.WithLabelValues(role).Inc()
}

// RecordLogin counts a login attempt with its outcome.
func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordJoin counts a join-club request.
func (c *Collector) RecordJoin(result string) {
	if c == nil {
		return
	}
	c.joins.WithLabelValues(result).Inc()
}

// RecordClubMutation counts a write to a club document.
func (c *Collector) RecordClubMutation(action string) {
	if c == nil {
		return
	}
	c.clubMutations.WithLabelValues(action).Inc()
}

// Middleware records request count and latency per chi route pattern.
// Unmatched paths are grouped under "unmatched" to keep label cardinality
// bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
