package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/internal/users"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// AssessmentStatus reports whether the authenticated user finished the
// intake assessment.
func AssessmentStatus(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		completed, err := svc.AssessmentStatus(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"completed": completed})
	}
}

// AssessmentComplete marks the intake assessment done for the
// authenticated user.
func AssessmentComplete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.CompleteAssessment(ctx, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"completed": true})
	}
}
