package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sqlcoach/sqlcoach/internal/config"
	"github.com/sqlcoach/sqlcoach/internal/observability"
	"github.com/sqlcoach/sqlcoach/internal/provider"
	"github.com/sqlcoach/sqlcoach/internal/session"
)

type Dependencies struct {
	Logger    *slog.Logger
	Generator provider.Generator
	Coach     provider.Coach
	Session   *session.Session
	UI        http.Handler
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})
	mux.Handle("GET /v1/metrics", promhttp.Handler())

	mux.HandleFunc("POST /generate-schema", func(w http.ResponseWriter, r *http.Request) {
		handleGenerateSchema(deps, w, r)
	})
	mux.HandleFunc("POST /explain-sql-error", func(w http.ResponseWriter, r *http.Request) {
		handleExplainError(deps, w, r)
	})
	mux.HandleFunc("POST /load-schema", func(w http.ResponseWriter, r *http.Request) {
		handleLoadSchema(deps, w, r)
	})
	mux.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(deps, w, r)
	})
	mux.HandleFunc("GET /tables", func(w http.ResponseWriter, r *http.Request) {
		handleTables(deps, w, r)
	})
	mux.HandleFunc("POST /reset", func(w http.ResponseWriter, r *http.Request) {
		handleReset(deps, w, r)
	})

	// Root serves the embedded UI; every other unmatched path gets a plain
	// placeholder rather than a 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" && deps.UI != nil {
			deps.UI.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("sqlcoach: nothing here. Open / for the practice console.\n"))
	})

	middlewares := []func(http.Handler) http.Handler{
		corsMiddleware,
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

// corsMiddleware attaches permissive CORS headers to every response and
// answers preflight requests directly with an empty body.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		header.Set("Access-Control-Max-Age", "86400")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
