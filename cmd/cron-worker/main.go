package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fitcoachhq/fitcoach-backend/internal/blog"
	"github.com/fitcoachhq/fitcoach-backend/internal/cron"
	"github.com/fitcoachhq/fitcoach-backend/internal/subscriptions"
	"github.com/fitcoachhq/fitcoach-backend/internal/users"
	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
	"github.com/fitcoachhq/fitcoach-backend/pkg/metrics"
	"github.com/fitcoachhq/fitcoach-backend/pkg/migrate"
	"github.com/fitcoachhq/fitcoach-backend/pkg/redis"
)

const lockKeyFormat = "fc:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	gormDB := dbClient.DB()
	subsRepo := subscriptions.NewRepository(gormDB)
	usersRepo := users.NewRepository(gormDB)
	blogRepo := blog.NewRepository(gormDB)

	registry := cron.NewRegistry()

	if cfg.Sendgrid.Enabled() {
		mailer, err := mail.NewSendgridSender(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create mail sender", err)
			os.Exit(1)
		}
		reminderJob, err := cron.NewExpiryReminderJob(cron.ExpiryReminderJobParams{
			Logger:        logg,
			Subscriptions: subsRepo,
			Users:         usersRepo,
			Mailer:        mailer,
			Dedupe:        redisClient,
			LeadDays:      cfg.Cron.ReminderLeadDays,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create expiry reminder job", err)
			os.Exit(1)
		}
		registry.Register(reminderJob)
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, expiry reminders disabled")
	}

	expiryJob, err := cron.NewSubscriptionExpiryJob(cron.SubscriptionExpiryJobParams{
		Logger:        logg,
		Subscriptions: subsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription expiry job", err)
		os.Exit(1)
	}
	registry.Register(expiryJob)

	viewFlushJob, err := cron.NewBlogViewFlushJob(cron.BlogViewFlushJobParams{
		Logger: logg,
		Buffer: redisClient,
		Blog:   blogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create blog view flush job", err)
		os.Exit(1)
	}
	registry.Register(viewFlushJob)

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
