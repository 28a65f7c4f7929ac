package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

type CORSConfig struct {
	// Origins lists allowed origins; "*" allows any.
	Origins          []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows any origin, with credentials, for the methods the
// API serves.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Origins:          []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORS wraps go-chi/cors. Preflight requests (OPTIONS with
// Access-Control-Request-Method) get their headers from cors and are then
// answered with 204 without reaching the router. With no origins configured
// it is a no-op.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.Origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins:     cfg.Origins,
		AllowedMethods:     cfg.AllowedMethods,
		AllowedHeaders:     cfg.AllowedHeaders,
		AllowCredentials:   cfg.AllowCredentials,
		MaxAge:             cfg.MaxAge,
		OptionsPassthrough: true,
	})

	return func(next http.Handler) http.Handler {
		return handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
