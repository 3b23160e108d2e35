package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	// Inbound ids longer than this are replaced; they are attacker
	// controlled and end up in every log line.
	maxRequestIDLen = 64
)

// RequestID tags the request with the caller's id or a fresh uuid,
// echoes it on the response, and binds it to the log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
