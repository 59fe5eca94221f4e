package middleware

import (
	"strconv"
	"time"

	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"

	slowRequestThreshold = time.Second
)

// HTTPMetricsMiddleware records every request except scrapes and health
// checks, labelled by route template so ids do not become label values.
func HTTPMetricsMiddleware(m *metrics.Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Path() {
		case HealthPath, MetricsPath:
			return c.Next()
		}

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := strconv.Itoa(c.Response().StatusCode())
		size := len(c.Response().Body())

		m.RecordHTTPRequest(c.Method(), route, status, duration, size)

		if duration > slowRequestThreshold {
			logger.Warn("Slow HTTP request",
				zap.String("method", c.Method()),
				zap.String("route", route),
				zap.String("status_code", status),
				zap.Duration("duration", duration))
		}

		return err
	}
}

// HealthCheckMiddleware answers HealthPath before routing. The service is
// healthy only while ping succeeds; a nil ping reports the database as
// unchecked.
func HealthCheckMiddleware(serviceName string, ping func() error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != HealthPath {
			return c.Next()
		}

		status, database, code := "healthy", "unchecked", fiber.StatusOK
		if ping != nil {
			database = "up"
			if err := ping(); err != nil {
				status, database, code = "unhealthy", "down", fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"database":  database,
			"service":   serviceName,
			"timestamp": time.Now().Unix(),
		})
	}
}
