package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the configured frontend origin to call the API. An empty
// origin means same-origin deployment and disables cross-origin access.
func CORS(frontendURL string) func(http.Handler) http.Handler {
	allowedOrigins := []string{}
	if frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})

	return c.Handler
}
