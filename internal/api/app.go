package api

import (
	v1middleware "github.com/Behyna/streamstore/internal/api/v1/middleware"
	"github.com/Behyna/streamstore/internal/config"
	middleware "github.com/Behyna/streamstore/internal/errors"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	appName        = "streamstore"
	bodyLimitSlack = 1 << 20
)

// NewApp builds the fiber app with the service error handler. The body limit
// leaves room above the proof upload size for the multipart envelope.
func NewApp(cfg *config.Config) *fiber.App {
	bodyLimit := fiber.DefaultBodyLimit
	if limit := int(cfg.Storage.MaxUploadBytes) + bodyLimitSlack; limit > bodyLimit {
		bodyLimit = limit
	}

	return fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          middleware.ErrorHandler(),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
}

func RegisterMiddlewares(app *fiber.App, m *metrics.Metrics, logger *zap.Logger, ping func() error) {
	app.Use(v1middleware.HealthCheckMiddleware(appName, ping))
	app.Use(v1middleware.HTTPMetricsMiddleware(m, logger))
}
