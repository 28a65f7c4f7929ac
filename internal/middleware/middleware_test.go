package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/promptlab/internal/metrics"
)

func teapot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("short and stout"))
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := wrap(rr)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)
	_, _ = rw.Write([]byte("abc"))

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, int64(3), rw.written)
	assert.Same(t, rw, wrap(rw))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(Logger(logger))
	r.Get("/prompts/{id}", teapot)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/prompts/abc", nil))

	require.Equal(t, http.StatusTeapot, rr.Code)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/prompts/abc")
	assert.Contains(t, out, "route=/prompts/{id}")
	assert.Contains(t, out, "bytes=15")
	assert.Contains(t, out, "request_id=")
}

func TestMetrics(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/prompts/{id}", teapot)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/prompts/"+id, nil))
	}

	expected := `
# HELP promptlab_http_requests_total Total number of HTTP requests, partitioned by method, route and status.
# TYPE promptlab_http_requests_total counter
promptlab_http_requests_total{method="GET",route="/prompts/{id}",status="418"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "promptlab_http_requests_total"))
}

func TestMetrics_NilPassesThrough(t *testing.T) {
	h := Metrics(nil)(http.HandlerFunc(teapot))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/prompts", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		return req
	}

	t.Run("wildcard preflight", func(t *testing.T) {
		rr := httptest.NewRecorder()
		CORS(DefaultCORSConfig())(ok).ServeHTTP(rr, preflight("http://localhost:3000"))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.MethodPatch, rr.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.Origins = []string{"http://app.example"}

		req := httptest.NewRequest(http.MethodGet, "/prompts", nil)
		req.Header.Set("Origin", "http://app.example")
		rr := httptest.NewRecorder()
		CORS(cfg)(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "http://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rr.Header().Values("Vary"), "Origin")
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.Origins = []string{"http://app.example"}

		rr := httptest.NewRecorder()
		CORS(cfg)(ok).ServeHTTP(rr, preflight("http://evil.example"))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("no origin header passes through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		CORS(DefaultCORSConfig())(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/prompts", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origins configured is a no-op", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.Origins = nil

		rr := httptest.NewRecorder()
		CORS(cfg)(ok).ServeHTTP(rr, preflight("http://localhost:3000"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
