package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fitcoachhq/fitcoach-backend/api/routes"
	"github.com/fitcoachhq/fitcoach-backend/internal/auth"
	"github.com/fitcoachhq/fitcoach-backend/internal/blog"
	"github.com/fitcoachhq/fitcoach-backend/internal/contact"
	"github.com/fitcoachhq/fitcoach-backend/internal/cron"
	"github.com/fitcoachhq/fitcoach-backend/internal/diets"
	"github.com/fitcoachhq/fitcoach-backend/internal/feedback"
	"github.com/fitcoachhq/fitcoach-backend/internal/notifications"
	"github.com/fitcoachhq/fitcoach-backend/internal/plans"
	"github.com/fitcoachhq/fitcoach-backend/internal/promocodes"
	"github.com/fitcoachhq/fitcoach-backend/internal/push"
	"github.com/fitcoachhq/fitcoach-backend/internal/subscriptions"
	"github.com/fitcoachhq/fitcoach-backend/internal/users"
	"github.com/fitcoachhq/fitcoach-backend/internal/workouts"
	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/mail"
	"github.com/fitcoachhq/fitcoach-backend/pkg/migrate"
	"github.com/fitcoachhq/fitcoach-backend/pkg/redis"
	"github.com/fitcoachhq/fitcoach-backend/pkg/webpush"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	var mailer mail.Sender
	if cfg.Sendgrid.Enabled() {
		sender, err := mail.NewSendgridSender(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create mail sender", err)
			os.Exit(1)
		}
		mailer = sender
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, transactional email disabled")
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	subsRepo := subscriptions.NewRepository(gormDB)
	promoRepo := promocodes.NewRepository(gormDB)
	blogRepo := blog.NewRepository(gormDB)
	pushRepo := push.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		Mailer:         mailer,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	plansService, err := plans.NewService(plans.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create plans service", err)
		os.Exit(1)
	}
	promoService, err := promocodes.NewService(promoRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create promo code service", err)
		os.Exit(1)
	}
	subsService, err := subscriptions.NewService(subsRepo, dbClient, promoService)
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}
	workoutsService, err := workouts.NewService(workouts.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create workouts service", err)
		os.Exit(1)
	}
	dietsService, err := diets.NewService(diets.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create diets service", err)
		os.Exit(1)
	}
	blogService, err := blog.NewService(blog.ServiceParams{
		Repo:    blogRepo,
		Views:   blog.NewRedisViewBuffer(redisClient),
		Mailer:  mailer,
		Clients: usersRepo,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}
	feedbackService, err := feedback.NewService(feedback.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create feedback service", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	var dispatcher *push.Dispatcher
	if cfg.Push.Enabled() {
		sender, err := webpush.NewVAPIDSender(cfg.Push)
		if err != nil {
			logg.Error(context.Background(), "failed to create web push sender", err)
			os.Exit(1)
		}
		dispatcher = push.NewDispatcher(sender, pushRepo, logg, cfg.Push.Concurrency)
	} else {
		logg.Warn(context.Background(), "vapid keys not configured, web push disabled")
	}
	pushService, err := push.NewService(push.ServiceParams{
		Repo:       pushRepo,
		Inbox:      notificationsService,
		Clients:    usersRepo,
		Dispatcher: dispatcher,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create push service", err)
		os.Exit(1)
	}
	contactService, err := contact.NewService(contact.NewRepository(gormDB), mailer, cfg.Sendgrid.ContactTo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	var reminderJob cron.Job
	if mailer != nil {
		reminderJob, err = cron.NewExpiryReminderJob(cron.ExpiryReminderJobParams{
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
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DBPinger:      dbClient,
			Redis:         redisClient,
			Auth:          authService,
			Users:         usersService,
			Plans:         plansService,
			Subscriptions: subsService,
			PromoCodes:    promoService,
			Workouts:      workoutsService,
			Diets:         dietsService,
			Blog:          blogService,
			Feedback:      feedbackService,
			Notifications: notificationsService,
			Push:          pushService,
			Contact:       contactService,
			ReminderJob:   reminderJob,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
