package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bestimator/bestimator-backend/internal/cron"
	"github.com/bestimator/bestimator-backend/internal/materials"
	"github.com/bestimator/bestimator-backend/internal/pricerefresh"
	"github.com/bestimator/bestimator-backend/pkg/config"
	"github.com/bestimator/bestimator-backend/pkg/db"
	"github.com/bestimator/bestimator-backend/pkg/logger"
	"github.com/bestimator/bestimator-backend/pkg/metrics"
	"github.com/bestimator/bestimator-backend/pkg/migrate"
	"github.com/bestimator/bestimator-backend/pkg/redis"
)

const lockKeyFormat = "bestimator:price-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "price-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "price-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	materialService, err := materials.NewService(materials.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create materials service", err)
		os.Exit(1)
	}

	priceClient, err := pricerefresh.NewClient(cfg.PriceRefresh)
	if err != nil {
		logg.Error(context.Background(), "failed to create price client", err)
		os.Exit(1)
	}

	refreshJob, err := pricerefresh.NewJob(logg, materialService, priceClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create price refresh job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(refreshJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.PriceRefresh.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.PriceRefresh.Interval.String(),
	})
	logg.Info(ctx, "starting price refresh worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "price refresh worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "price refresh worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
