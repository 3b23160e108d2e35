package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FitCoach-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency status; any failing dependency flips
// the response to 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "down"
				healthy = false
				logg.Error(ctx, "readiness database check failed", err)
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
				logg.Error(ctx, "readiness redis check failed", err)
			} else {
				checks["redis"] = "ok"
			}
		}

		w.Header().Set("X-FitCoach-Env", cfg.App.Env)
		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "checks": checks})
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
