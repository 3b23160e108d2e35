package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/middleware"
	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/plans"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// PlanList returns the catalog. Public callers see active plans only;
// the coach sees everything.
func PlanList(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		activeOnly := middleware.RoleFromContext(ctx) != enums.UserRoleCoach.String()
		items, err := svc.List(ctx, activeOnly)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"plans": items})
	}
}

func PlanCreate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params plans.PlanParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		plan, err := svc.Create(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, plan)
	}
}

func PlanUpdate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "planId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var params plans.PlanParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		plan, err := svc.Update(ctx, id, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func PlanDelete(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "planId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
