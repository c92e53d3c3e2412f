package main

import (
	"context"
	"fmt"

	httpadp "agridata-backend/internal/adapter/http"
	mw "agridata-backend/internal/adapter/middleware"
	repo "agridata-backend/internal/adapter/repository/mysql"
	"agridata-backend/internal/config"
	"agridata-backend/internal/infrastructure/cache"
	"agridata-backend/internal/infrastructure/db"
	ucApproval "agridata-backend/internal/usecase/approval"
	"agridata-backend/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type app struct {
	db   *gorm.DB
	rdb  *redis.Client
	echo *echo.Echo
}

func openDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return gdb, nil
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	gdb, err := openDB(cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(gdb); err != nil {
			closeDB(gdb)
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info().Msg("schema migrated")
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		closeDB(gdb)
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		closeDB(gdb)
		_ = rdb.Close()
		return nil, err
	}

	uc := ucApproval.NewUsecase(
		repo.NewApprovalRepository(gdb),
		repo.NewGormUoW(gdb),
		log.With().Str("component", "approval").Logger(),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: id.NewRequestID}),
		accessLog(log),
	)

	h := httpadp.NewHandler(map[string]httpadp.Pinger{
		"db":    sqlDB,
		"redis": httpadp.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	})
	idem := mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), log.With().Str("component", "idempotency").Logger())
	httpadp.RegisterRoutes(e, h, httpadp.NewApprovalHandler(uc), idem)
	e.GET(cfg.MetricsPath, echo.WrapHandler(promhttp.Handler()))

	return &app{db: gdb, rdb: rdb, echo: e}, nil
}

func (a *app) close() {
	_ = a.rdb.Close()
	closeDB(a.db)
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func accessLog(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
