package middleware

import (
	"context"
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/google/uuid"
)

type SubscriptionStateChecker interface {
	CurrentState(ctx context.Context, userID uuid.UUID) (enums.SubscriptionState, error)
}

// RequireActiveSubscription gates client content behind an active subscription.
// Coaches pass without a check; a cancelled subscription that has not expired
// still does not grant access because its state projects to none.
func RequireActiveSubscription(checker SubscriptionStateChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if checker == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription checker unavailable"))
				return
			}

			if RoleFromContext(ctx) == string(enums.UserRoleCoach) {
				next.ServeHTTP(w, r)
				return
			}

			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}
			uid, err := uuid.Parse(userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}

			state, err := checker.CurrentState(ctx, uid)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check subscription"))
				return
			}

			switch state {
			case enums.SubscriptionStateActive:
				next.ServeHTTP(w, r)
			case enums.SubscriptionStateExpired:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "active subscription required").
					WithDetails(map[string]string{"reason": "subscription_expired"}))
			default:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "active subscription required").
					WithDetails(map[string]string{"reason": "no_subscription"}))
			}
		})
	}
}
