package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/internal/cron"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// CronTrigger runs one cron job on demand. The shared-secret middleware
// guards the route; the scheduled worker remains the primary driver.
func CronTrigger(job cron.Job, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if job == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cron job unavailable"))
			return
		}

		if err := job.Run(logg.WithField(ctx, "job", job.Name())); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cron job failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"job": job.Name(), "status": "completed"})
	}
}
