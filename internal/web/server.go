// Package web exposes the harness over HTTP: a query-parameter trigger
// for benchmark runs, the URL-fetch peer, a health probe and the
// Prometheus scrape endpoint. It is request/response glue only; all
// benchmark semantics live in internal/harness.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"benchkit/internal/harness"
	"benchkit/internal/history"
	"benchkit/internal/telemetry"
	"benchkit/internal/urlbench"

	"github.com/spf13/cast"
)

// Server handles benchmark trigger requests.
type Server struct {
	harness *harness.Harness
	fetcher *urlbench.Fetcher
	metrics *telemetry.Metrics
	store   history.Store // optional; nil disables persistence
	addr    string
}

// NewServer creates a trigger server. store may be nil.
func NewServer(h *harness.Harness, addr string, store history.Store) *Server {
	return &Server{
		harness: h,
		fetcher: urlbench.New(nil),
		metrics: telemetry.NewMetrics(),
		store:   store,
		addr:    addr,
	}
}

// Handler returns the route table, exported for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bench", s.handleBench)
	mux.HandleFunc("GET /urlbench", s.handleURLBench)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// Start blocks serving HTTP on the configured address.
func (s *Server) Start() error {
	slog.Info("Starting benchmark server", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) handleBench(w http.ResponseWriter, r *http.Request) {
	report, err := s.harness.RunValues(r.URL.Query())
	if err != nil {
		// An unparseable option is the caller's fault; everything else
		// (registry build, hooks) is a harness failure.
		var resErr *harness.ResolveError
		if errors.As(err, &resErr) {
			http.Error(w, resErr.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Benchmark run failed", "error", err)
		http.Error(w, fmt.Sprintf("benchmark run failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.ObserveRun(report)
	if s.store != nil {
		if err := s.store.Save(report); err != nil {
			slog.Error("Failed to persist run", "error", err)
		}
	}

	writeJSON(w, report)
}

func (s *Server) handleURLBench(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		http.Error(w, "missing required parameter: url", http.StatusBadRequest)
		return
	}
	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		var err error
		count, err = cast.ToIntE(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid count parameter %q", raw), http.StatusBadRequest)
			return
		}
	}

	report, err := s.fetcher.Run(r.Context(), target, count)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
