package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters exported alongside the HTTP metrics.
var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_redis_errors_total",
		Help: "Total number of Redis command errors.",
	}, []string{"command"})

	// VotesApplied counts completed vote transitions by target type and resulting state.
	VotesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_votes_applied_total",
		Help: "Total number of vote state transitions applied.",
	}, []string{"target_type", "state"})

	// NotificationsEmitted counts persisted notifications by kind.
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_notifications_emitted_total",
		Help: "Total number of notifications written.",
	}, []string{"kind"})

	// NotificationsDropped counts notification writes that failed and were
	// swallowed (best-effort delivery).
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quorum_notifications_dropped_total",
		Help: "Total number of notification writes that failed.",
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler for the app.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
