package middleware

import (
	"net/http"
	"time"

	"github.com/sakif/promptlab/internal/metrics"
)

// Metrics records request count and latency per route pattern. With a nil
// *metrics.Metrics it passes requests straight through.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			m.ObserveRequest(r.Method, routePattern(r), wrapped.statusCode, time.Since(start))
		})
	}
}
