package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/subscriptions"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type subscribePayload struct {
	PlanID    uuid.UUID `json:"plan_id" validate:"required"`
	PromoCode string    `json:"promo_code,omitempty"`
}

type adminSubscribePayload struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	PlanID    uuid.UUID `json:"plan_id" validate:"required"`
	PromoCode string    `json:"promo_code,omitempty"`
}

type subscriptionStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// Subscribe starts a plan for the authenticated user, replacing any active
// subscription in the same transaction.
func Subscribe(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload subscribePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Subscribe(ctx, subscriptions.SubscribeParams{
			UserID:    userID,
			PlanID:    payload.PlanID,
			PromoCode: payload.PromoCode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SubscriptionCurrent projects the authenticated user's subscription state.
func SubscriptionCurrent(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := svc.Current(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// AdminSubscriptionCreate starts a plan on behalf of a client.
func AdminSubscriptionCreate(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload adminSubscribePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Subscribe(ctx, subscriptions.SubscribeParams{
			UserID:    payload.UserID,
			PlanID:    payload.PlanID,
			PromoCode: payload.PromoCode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AdminSubscriptionUpdate overrides the persisted status of one
// subscription row.
func AdminSubscriptionUpdate(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload subscriptionStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseSubscriptionStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription status"))
			return
		}

		if err := svc.UpdateStatus(ctx, id, status); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": status.String()})
	}
}

func AdminSubscriptionDelete(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "subscriptionId")
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
