package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"
)

// Server exposes the worker's operational surface: health, build info, a
// redacted config snapshot and Prometheus metrics. It never touches job
// data; the pipeline itself stays headless.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	opts       Options
	metrics    *Metrics
	limiter    *ipRateLimiter
	started    time.Time
}

type Options struct {
	Addr            string
	RateLimitRPS    int
	RateLimitBurst  int
	EnableMetrics   bool
	EnableAccessLog bool
	Build           BuildInfo
	ConfigSnapshot  map[string]any
}

func New(opts Options) *Server {
	srv := &Server{
		opts:    opts,
		metrics: newMetrics(),
		limiter: newIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/info", srv.handleInfo)
	mux.HandleFunc("/config", srv.handleConfig)
	if opts.EnableMetrics {
		mux.Handle("/metrics", srv.metrics.Handler())
	}

	srv.mux = mux
	srv.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           srv.wrap(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv
}

// Metrics returns the server's collector bundle for the worker to record
// job outcomes into.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Mux exposes the route mux so extra admin routes can hook in.
func (s *Server) Mux() *http.ServeMux { return s.mux }

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(s.opts.ConfigSnapshot)
}

func (s *Server) Start() error {
	log.Printf("http api listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
