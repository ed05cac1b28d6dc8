package transport

import (
	"net/http"

	"github.com/go-chi/cors"
)

// corsOptions lets the widget call the service from any page origin.
var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
	AllowedHeaders: []string{"Content-Type"},
	MaxAge:         600,
}

// CORSMiddleware wraps handlers with the service's cross-origin policy.
func CORSMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(corsOptions)
}
