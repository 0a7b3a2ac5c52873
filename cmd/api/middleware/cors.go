// Package middleware holds the HTTP middleware shared by the API server.
package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Cors allows the given origins to call the API from a browser. A single "*"
// allows any origin without credentials.
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	credentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			credentials = false
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: credentials,
		MaxAge:           3600,
	})
}
