package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation type.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aperture_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// MediaOperations counts media-host calls by operation and outcome.
var MediaOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aperture_media_operations_total",
	Help: "Total number of media host operations by operation and result",
}, []string{"operation", "result"})

// MailSends counts mail relay sends by outcome.
var MailSends = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aperture_mail_sends_total",
	Help: "Total number of mail relay sends by result",
}, []string{"result"})

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
