package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/internal/auth"
	"github.com/fitcoachhq/fitcoach-backend/internal/subscriptions"
	"github.com/fitcoachhq/fitcoach-backend/internal/users"
	"github.com/fitcoachhq/fitcoach-backend/internal/workouts"
	pkgauth "github.com/fitcoachhq/fitcoach-backend/pkg/auth"
	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db/models"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Me(_ context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubAuthService) SendCredentials(context.Context, auth.SendCredentialsRequest) error {
	return nil
}

type stubSubscriptionsService struct {
	state enums.SubscriptionState
}

func (s stubSubscriptionsService) Subscribe(context.Context, subscriptions.SubscribeParams) (*subscriptions.SubscribeResult, error) {
	return &subscriptions.SubscribeResult{}, nil
}

func (s stubSubscriptionsService) Current(context.Context, uuid.UUID) (*subscriptions.Status, error) {
	return &subscriptions.Status{State: s.state}, nil
}

func (s stubSubscriptionsService) CurrentState(context.Context, uuid.UUID) (enums.SubscriptionState, error) {
	return s.state, nil
}

func (s stubSubscriptionsService) UpdateStatus(context.Context, uuid.UUID, enums.SubscriptionStatus) error {
	return nil
}

func (s stubSubscriptionsService) Delete(context.Context, uuid.UUID) error { return nil }

type stubWorkoutsService struct{}

func (stubWorkoutsService) ListForCoach(context.Context, uuid.UUID) ([]models.WorkoutPlan, error) {
	return nil, nil
}

func (stubWorkoutsService) ListForClient(context.Context, uuid.UUID) ([]models.WorkoutPlan, error) {
	return []models.WorkoutPlan{}, nil
}

func (stubWorkoutsService) Get(context.Context, uuid.UUID) (*models.WorkoutPlan, error) {
	return &models.WorkoutPlan{}, nil
}

func (stubWorkoutsService) Create(context.Context, uuid.UUID, workouts.PlanParams) (*models.WorkoutPlan, error) {
	return &models.WorkoutPlan{}, nil
}

func (stubWorkoutsService) Update(context.Context, uuid.UUID, uuid.UUID, workouts.PlanParams) (*models.WorkoutPlan, error) {
	return &models.WorkoutPlan{}, nil
}

func (stubWorkoutsService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubJob struct{ runs int }

func (s *stubJob) Name() string { return "stub" }

func (s *stubJob) Run(context.Context) error { s.runs++; return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "fitcoach",
			ExpirationMinutes: 60,
		},
		Cron: config.CronConfig{SharedSecret: "cron-secret"},
	}
}

func testRouter(t *testing.T, state enums.SubscriptionState, job *stubJob) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:        testConfig(),
		Logger:        logger.New(logger.Options{ServiceName: "router-test"}),
		Auth:          stubAuthService{},
		Subscriptions: stubSubscriptionsService{state: state},
		Workouts:      stubWorkoutsService{},
		ReminderJob:   job,
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t, enums.SubscriptionStateActive, &stubJob{})
	rec := doRequest(t, router, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMeRequiresToken(t *testing.T) {
	router := testRouter(t, enums.SubscriptionStateActive, &stubJob{})

	if rec := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", mintToken(t, enums.UserRoleClient)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestCoachRoutesRejectClients(t *testing.T) {
	router := testRouter(t, enums.SubscriptionStateActive, &stubJob{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/workouts", mintToken(t, enums.UserRoleClient))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client on coach route, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "/api/v1/workouts", mintToken(t, enums.UserRoleCoach))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for coach, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMyWorkoutsGatedOnSubscription(t *testing.T) {
	expired := testRouter(t, enums.SubscriptionStateExpired, &stubJob{})
	rec := doRequest(t, expired, http.MethodGet, "/api/v1/my-workouts", mintToken(t, enums.UserRoleClient))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for expired subscription, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "subscription") {
		t.Fatalf("expected subscription reason in body: %s", rec.Body.String())
	}

	active := testRouter(t, enums.SubscriptionStateActive, &stubJob{})
	rec = doRequest(t, active, http.MethodGet, "/api/v1/my-workouts", mintToken(t, enums.UserRoleClient))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for active subscription, got %d", rec.Code)
	}
}

func TestCronRouteRequiresSharedSecret(t *testing.T) {
	job := &stubJob{}
	router := testRouter(t, enums.SubscriptionStateActive, job)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cron/expiry-reminders", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", rec.Code)
	}
	if job.runs != 0 {
		t.Fatal("job must not run without the shared secret")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/expiry-reminders", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with secret, got %d: %s", rec.Code, rec.Body.String())
	}
	if job.runs != 1 {
		t.Fatalf("expected job to run once, ran %d", job.runs)
	}
}
