package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Browser clients: the production site, its www alias, Vercel preview
// deployments, and local dev.
var corsOptions = cors.Options{
	AllowedOrigins: []string{
		"http://localhost:3000",
		"https://fitcoachhq.com",
		"https://www.fitcoachhq.com",
		"https://fitcoach.vercel.app",
	},
	AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
	AllowCredentials: true,
	MaxAge:           300,
}

// CORS applies the API's allowed-origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(corsOptions).Handler
}
