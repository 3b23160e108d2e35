package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/contact"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// ContactSubmit stores a contact-form message and relays it to the inbox.
func ContactSubmit(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params contact.SubmitParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params.Name = validators.SanitizeString(params.Name, 120)
		params.Message = validators.SanitizeString(params.Message, 4000)

		if err := svc.Submit(ctx, params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "received"})
	}
}
