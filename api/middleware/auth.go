package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	pkgAuth "github.com/fitcoachhq/fitcoach-backend/pkg/auth"
	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// bearerToken extracts the credential from an Authorization header.
// The "Bearer" prefix is optional and case insensitive.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = strings.TrimSpace(raw[len("bearer "):])
	}
	return raw
}

// Auth rejects requests without a valid access token and seeds the
// context with the token's identity claims for downstream handlers.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	unauthorized := func(w http.ResponseWriter, r *http.Request, err *pkgerrors.Error) {
		responses.WriteError(r.Context(), logg, w, err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				unauthorized(w, r, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxEmail, claims.Email)
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
