package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/lumiere-skin/storefront/internal/config"
)

// CORS allows the storefront SPA to call the API with its session cookie
func CORS() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{config.GetFrontendURL()}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)
}
