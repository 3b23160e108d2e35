package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/promocodes"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type promoPayload struct {
	Code  string          `json:"code" validate:"required"`
	Total decimal.Decimal `json:"total" validate:"required"`
}

// PromoValidate quotes a discount without consuming a use.
func PromoValidate(svc promocodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload promoPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote, err := svc.Validate(ctx, payload.Code, payload.Total)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// PromoApply re-validates and consumes one use of the code.
func PromoApply(svc promocodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload promoPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote, err := svc.Apply(ctx, payload.Code, payload.Total)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
