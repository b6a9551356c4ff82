package main

import (
	"context"
	"net/http"

	"work-equipment-service/internal/integrations"
	"work-equipment-service/internal/integrations/mock"
	"work-equipment-service/internal/integrations/provisioning"
	"work-equipment-service/internal/routes"
	"work-equipment-service/migrations"
	"work-equipment-service/pkg/config"
	"work-equipment-service/pkg/database/postgresql"
	apperrors "work-equipment-service/pkg/errors"
	applogger "work-equipment-service/pkg/logger"
	"work-equipment-service/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = utils.NewValidator(validator.New())

	ctx := context.Background()

	dbConn := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	defer dbConn.Close()

	if err := postgresql.RunMigrations(dbConn, migrations.FS); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// Snapshot providers: the carrier gateway plus a deterministic mock for
	// local deployments. The active one comes from configuration.
	carrierProvider := provisioning.New(cfg.Provisioning.BaseURL, cfg.Provisioning.Timeout, logger)
	mockProvider := mock.NewMockProvider()

	registry := integrations.NewRegistry()
	for _, p := range []integrations.SnapshotProvider{carrierProvider, mockProvider} {
		if err := registry.Register(p); err != nil {
			logger.Fatal("provider registration failed", zap.Error(err))
		}
	}
	if err := registry.SetActive(cfg.Provisioning.Provider); err != nil {
		logger.Fatal("unknown provisioning provider", zap.String("provider", cfg.Provisioning.Provider), zap.Error(err))
	}

	var boundary integrations.CommitBoundary = carrierProvider
	if cfg.Provisioning.Provider == mockProvider.Name() {
		boundary = mockProvider
	}

	routes.InitRouter(e, dbConn, redisClient, registry, boundary, logger, cfg)

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
