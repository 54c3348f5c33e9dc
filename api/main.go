package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/glucolog/insights/aiclient"
	"github.com/glucolog/insights/analysis"
	"github.com/glucolog/insights/config"
	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/events"
	"github.com/glucolog/insights/logger"
	"github.com/glucolog/insights/notifications"
	"github.com/glucolog/insights/readings"
	"github.com/glucolog/insights/settings"
	"github.com/glucolog/insights/store"
	"github.com/glucolog/insights/usage"
)

func Start(e *echo.Echo, cfg *config.Config, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.HttpPort)); err != nil {
					fmt.Println(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, db *mongo.Database, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}

			// It's important this is set after mongo is initialized, which is ensured
			// by taking a dependency on mongo in the constructor, because lifecycle hooks
			// are executed in topological order
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: nil,
	})
}

func NewServer(handler *Handler, healthCheck *HealthCheck, zapLogger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(RequestLogger(zapLogger, []string{"/ready"}))

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterRoutes(e, handler)

	return e, nil
}

func RegisterRoutes(e *echo.Echo, handler *Handler) {
	v1 := e.Group("/v1")

	v1.POST("/readings", handler.CreateReadings)
	v1.GET("/readings", handler.ListReadings)

	v1.POST("/events", handler.CreateEvent)
	v1.GET("/events", handler.ListEvents)
	v1.GET("/events/:id", handler.GetEvent)
	v1.PUT("/events/:id", handler.UpdateEvent)
	v1.POST("/events/:id/analysis", handler.AnalyzeEvent)
	v1.POST("/events/:id/stats", handler.RefreshEventStats)
	v1.POST("/events/stats", handler.RefreshAllEventStats)
	v1.GET("/events/:id/history", handler.ListEventHistory)

	v1.GET("/stats/period", handler.GetPeriodStats)

	v1.GET("/usage", handler.GetUsageReport)
	v1.GET("/usage/pricing", handler.GetPricing)

	v1.GET("/settings/analysis", handler.GetAnalysisSettings)
	v1.PUT("/settings/analysis", handler.UpdateAnalysisSettings)
}

// Dependencies returns the full DI graph of the service. The CLI reuses it
// to run one-shot commands against the same wiring.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			config.NewFromEnv,
			store.NewConfig,
			store.GetConnectionString,
			store.NewClient,
			store.NewDatabase,
			readings.NewRepository,
			events.NewRepository,
			events.NewHistoryRepository,
			events.NewService,
			settings.NewRepository,
			settings.NewService,
			notifications.NewNotifier,
			usage.NewRepository,
			usage.DefaultPriceTable,
			usage.NewService,
			aiclient.NewConfig,
			aiclient.NewClient,
			analysis.NewService,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func MainLoop() {
	options := append(
		Dependencies(),
		fx.Invoke(SetReady),
		fx.Invoke(Start),
	)
	fx.New(options...).Run()
}
