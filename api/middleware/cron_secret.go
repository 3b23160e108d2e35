package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// CronSecret authenticates scheduler callbacks with a shared bearer secret.
// Comparison is constant time.
func CronSecret(secret string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cron secret not configured"))
				return
			}

			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid cron credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
