package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/diets"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

func DietList(svc diets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		coachID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		plans, err := svc.ListForCoach(ctx, coachID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"diets": plans})
	}
}

func DietGet(svc diets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "dietId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		plan, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func DietCreate(svc diets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		coachID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var params diets.PlanParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		plan, err := svc.Create(ctx, coachID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, plan)
	}
}

func DietUpdate(svc diets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		coachID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := pathID(r, "dietId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var params diets.PlanParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		plan, err := svc.Update(ctx, coachID, id, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func DietDelete(svc diets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		coachID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := pathID(r, "dietId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, coachID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MyDiets returns the authenticated client's assigned diet plans.
func MyDiets(svc diets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clientID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		plans, err := svc.ListForClient(ctx, clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"diets": plans})
	}
}
