package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/users"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type createClientPayload struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=8"`
}

type updateClientPayload struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

func ClientList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clients, err := svc.ListClients(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"clients": clients})
	}
}

// ClientCreate provisions a client account. When no password is supplied
// the generated temporary one is returned so the coach can relay it.
func ClientCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createClientPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.CreateClient(ctx, users.CreateClientParams{
			Email:    payload.Email,
			Name:     payload.Name,
			Phone:    payload.Phone,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ClientUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "clientId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload updateClientPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		client, err := svc.UpdateClient(ctx, id, users.UpdateClientParams{
			Name:  payload.Name,
			Phone: payload.Phone,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, client)
	}
}

func ClientDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "clientId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.DeleteClient(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
