package main

import (
	"context"
	"time"

	"github.com/Behyna/streamstore/internal/api"
	v1 "github.com/Behyna/streamstore/internal/api/v1"
	"github.com/Behyna/streamstore/internal/api/v1/middleware"
	"github.com/Behyna/streamstore/internal/api/validator"
	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/chat"
	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/internal/storage"
	"github.com/Behyna/streamstore/internal/telegram"
	"github.com/Behyna/streamstore/internal/worker"
	"github.com/Behyna/streamstore/pkg/database"
	"github.com/Behyna/streamstore/pkg/httpclient"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectInterval = 15 * time.Second

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewMetrics,
			NewChatTransport,
			NewProofStore,
			NewMediaClient,
			NewValidate,

			repository.NewTransactionManager,
			repository.NewUserRepository,
			repository.NewTransactionRepository,
			repository.NewInventoryRepository,
			repository.NewPaymentProofRepository,
			repository.NewSettingRepository,
			ledger.NewStore,

			service.NewNotifier,
			service.NewBalanceService,
			service.NewInventoryService,
			service.NewPurchaseService,
			service.NewProofService,
			service.NewSettingsService,
			service.NewUserService,
			service.NewStatsService,
			service.NewBroadcastService,

			auth.NewAdminList,
			auth.NewTokenIssuer,
			validator.NewXValidator,
			v1.NewHandler,
			api.NewApp,

			chat.NewAdminCommands,
			chat.NewRouter,
			fx.Annotate(chat.NewFallbackResponder, fx.As(new(chat.Responder))),

			worker.NewSweeper,
			metrics.NewDBMonitor,
			NewCollector,
		),
		fx.Invoke(startServer, startBot, startBackground),
	).Run()
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewConnection(context.Background(), cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database", zap.Error(err))
		return nil, err
	}
	return db, nil
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewValidate() *playground.Validate {
	return playground.New()
}

func NewCollector(m *metrics.Metrics, monitor *metrics.DBMonitor, stats service.StatsService,
	proofs service.ProofService, logger *zap.Logger) *metrics.Collector {
	collector := metrics.NewCollector(logger, collectInterval)
	collector.Register("system", metrics.SystemSampler(m, logger, time.Now()))
	collector.Register("database", monitor.Sample)
	collector.Register("store", worker.StoreLevelsSampler(stats, proofs, m))
	return collector
}

func NewProofStore(cfg *config.Config) (storage.ProofStore, error) {
	return storage.NewOsFileStore(cfg.Storage.UploadDir)
}

func NewMediaClient(cfg *config.Config) httpclient.HTTPClient {
	return httpclient.NewHTTPClient(cfg.Telegram.Media)
}

// NewChatTransport returns the outgoing sender and, when Telegram is enabled,
// the bot API used to receive updates. With Telegram disabled the API is nil
// and outgoing messages are only logged.
func NewChatTransport(cfg *config.Config, logger *zap.Logger) (service.Sender, telegram.API, error) {
	if !cfg.Telegram.Enable {
		logger.Info("Telegram disabled, outgoing messages will be logged only")
		return service.NewLogSender(logger), nil, nil
	}

	botAPI, err := telegram.NewBotAPI(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return telegram.NewClient(botAPI, logger), botAPI, nil
}

func startServer(app *fiber.App, handler *v1.Handler, tokens *auth.TokenIssuer, m *metrics.Metrics,
	monitor *metrics.DBMonitor, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.RegisterMiddlewares(app, m, logger, monitor.HealthCheck)
	api.SetupRoutes(app, handler, middleware.AdminAuth(tokens, logger), prometheus.DefaultGatherer)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			logger.Info("HTTP server starting", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func startBot(botAPI telegram.API, sender service.Sender, router *chat.Router, media httpclient.HTTPClient,
	cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	if botAPI == nil {
		return
	}

	client, ok := sender.(*telegram.Client)
	if !ok {
		client = telegram.NewClient(botAPI, logger)
	}
	bot := telegram.NewBot(botAPI, client, router, media, cfg, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			bot.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return bot.Stop(ctx)
		},
	})
}

func startBackground(sweeper *worker.Sweeper, collector *metrics.Collector, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			collector.Start()
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			collector.Stop()
			return nil
		},
	})
}
