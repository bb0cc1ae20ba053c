// Package httpapi serves the liveness and readiness probes next to the gRPC server
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ReadinessChecker reports whether a dependency can serve requests
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// CheckerFunc adapts a function to ReadinessChecker
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ready(ctx context.Context) error { return f(ctx) }

const readyTimeout = 2 * time.Second

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter builds the probe router. Every named checker must pass for /readyz to report ok.
func NewRouter(logger *slog.Logger, checkers map[string]ReadinessChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, probeResponse{Status: "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), readyTimeout)
		defer cancel()

		resp := probeResponse{Status: "ok", Checks: make(map[string]string, len(checkers))}
		code := http.StatusOK
		for name, c := range checkers {
			if err := c.Ready(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed",
					slog.String("check", name),
					slog.Any("error", err))
				resp.Checks[name] = err.Error()
				resp.Status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		writeJSON(w, code, resp)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
