package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitcoachhq/fitcoach-backend/api/controllers"
	"github.com/fitcoachhq/fitcoach-backend/api/middleware"
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
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. CronJobs maps trigger
// routes to on-demand jobs; a nil entry disables its route handler.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DBPinger      db.Pinger
	Redis         *redis.Client
	Auth          auth.Service
	Users         users.Service
	Plans         plans.Service
	Subscriptions subscriptions.Service
	PromoCodes    promocodes.Service
	Workouts      workouts.Service
	Diets         diets.Service
	Blog          blog.Service
	Feedback      feedback.Service
	Notifications notifications.Service
	Push          push.Service
	Contact       contact.Service
	ReminderJob   cron.Job
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireCoach := middleware.RequireRole(enums.UserRoleCoach, logg)
	requireActiveSub := middleware.RequireActiveSubscription(deps.Subscriptions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface.
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(requireAuth).Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.With(requireAuth, requireCoach).Post("/send-credentials", controllers.AuthSendCredentials(deps.Auth, logg))
		})

		r.Get("/plans", controllers.PlanList(deps.Plans, logg))
		r.Get("/blog", controllers.BlogList(deps.Blog, logg))
		r.Get("/blog/latest", controllers.BlogLatest(deps.Blog, logg))
		r.Get("/blog/{slug}", controllers.BlogGet(deps.Blog, logg))
		r.Get("/feedback", controllers.FeedbackListPublic(deps.Feedback, logg))
		r.Post("/feedback", controllers.FeedbackSubmit(deps.Feedback, logg))
		r.Post("/promo-codes/validate", controllers.PromoValidate(deps.PromoCodes, logg))
		r.Post("/promo-codes/apply", controllers.PromoApply(deps.PromoCodes, logg))
		r.Post("/contact", controllers.ContactSubmit(deps.Contact, logg))

		r.Route("/cron", func(r chi.Router) {
			r.Use(middleware.CronSecret(cfg.Cron.SharedSecret, logg))
			r.Get("/expiry-reminders", controllers.CronTrigger(deps.ReminderJob, logg))
			r.Post("/expiry-reminders", controllers.CronTrigger(deps.ReminderJob, logg))
		})

		// Any authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/assessment", controllers.AssessmentStatus(deps.Users, logg))
			r.Post("/assessment", controllers.AssessmentComplete(deps.Users, logg))

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/subscribe", controllers.Subscribe(deps.Subscriptions, logg))
				r.Get("/my-subscription", controllers.SubscriptionCurrent(deps.Subscriptions, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
				r.With(requireCoach).Post("/", controllers.NotificationBroadcast(deps.Push, logg))
				r.With(requireCoach).Delete("/", controllers.NotificationBroadcastDelete(deps.Notifications, logg))
			})

			r.Route("/push", func(r chi.Router) {
				r.Post("/subscribe", controllers.PushSubscribe(deps.Push, logg))
				r.Delete("/subscribe", controllers.PushUnsubscribe(deps.Push, logg))
			})

			// Plan content is gated on an active subscription; coaches bypass.
			r.With(requireActiveSub).Get("/my-workouts", controllers.MyWorkouts(deps.Workouts, logg))
			r.With(requireActiveSub).Get("/my-diets", controllers.MyDiets(deps.Diets, logg))
		})

		// Coach-only management surface.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireCoach)

			r.Get("/plans/all", controllers.PlanList(deps.Plans, logg))
			r.Post("/plans", controllers.PlanCreate(deps.Plans, logg))
			r.Put("/plans/{planId}", controllers.PlanUpdate(deps.Plans, logg))
			r.Delete("/plans/{planId}", controllers.PlanDelete(deps.Plans, logg))

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", controllers.ClientList(deps.Users, logg))
				r.Post("/", controllers.ClientCreate(deps.Users, logg))
				r.Put("/{clientId}", controllers.ClientUpdate(deps.Users, logg))
				r.Delete("/{clientId}", controllers.ClientDelete(deps.Users, logg))
			})

			r.Route("/admin/subscriptions", func(r chi.Router) {
				r.Post("/", controllers.AdminSubscriptionCreate(deps.Subscriptions, logg))
				r.Put("/{subscriptionId}", controllers.AdminSubscriptionUpdate(deps.Subscriptions, logg))
				r.Delete("/{subscriptionId}", controllers.AdminSubscriptionDelete(deps.Subscriptions, logg))
			})

			r.Route("/workouts", func(r chi.Router) {
				r.Get("/", controllers.WorkoutList(deps.Workouts, logg))
				r.Post("/", controllers.WorkoutCreate(deps.Workouts, logg))
				r.Get("/{workoutId}", controllers.WorkoutGet(deps.Workouts, logg))
				r.Put("/{workoutId}", controllers.WorkoutUpdate(deps.Workouts, logg))
				r.Delete("/{workoutId}", controllers.WorkoutDelete(deps.Workouts, logg))
			})

			r.Route("/diets", func(r chi.Router) {
				r.Get("/", controllers.DietList(deps.Diets, logg))
				r.Post("/", controllers.DietCreate(deps.Diets, logg))
				r.Get("/{dietId}", controllers.DietGet(deps.Diets, logg))
				r.Put("/{dietId}", controllers.DietUpdate(deps.Diets, logg))
				r.Delete("/{dietId}", controllers.DietDelete(deps.Diets, logg))
			})

			r.Get("/blog/all", controllers.BlogListAll(deps.Blog, logg))
			r.Post("/blog", controllers.BlogCreate(deps.Blog, logg))
			r.Put("/blog/{postId}", controllers.BlogUpdate(deps.Blog, logg))
			r.Delete("/blog/{postId}", controllers.BlogDelete(deps.Blog, logg))

			r.Route("/admin/feedbacks", func(r chi.Router) {
				r.Get("/", controllers.FeedbackListAll(deps.Feedback, logg))
				r.Patch("/{feedbackId}", controllers.FeedbackModerate(deps.Feedback, logg))
				r.Delete("/{feedbackId}", controllers.FeedbackDelete(deps.Feedback, logg))
			})
		})
	})

	return r
}
