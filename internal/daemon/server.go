// Package daemon keeps a formatter resident so editors can format on
// save without paying process startup and cache load on every request.
//
// The daemon exposes a small HTTP API, keeps the fingerprint store
// warm, and shuts itself down after a configurable idle period. The
// store is flushed exactly once, on shutdown.
package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rstfmt/rstfmt/pkg/buildinfo"
	"github.com/rstfmt/rstfmt/pkg/cache"
	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/pipeline"
)

// DefaultIdleTimeout stops a daemon nobody is talking to.
const DefaultIdleTimeout = 15 * time.Minute

// Server is the resident formatter.
type Server struct {
	router      chi.Router
	runner      *pipeline.Runner
	store       cache.Store
	log         *log.Logger
	idleTimeout time.Duration

	lastActivity atomic.Int64
}

// NewServer wires the daemon around a shared runner and store.
// idleTimeout <= 0 uses DefaultIdleTimeout.
func NewServer(runner *pipeline.Runner, store cache.Store, logger *log.Logger, idleTimeout time.Duration) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	s := &Server{
		runner:      runner,
		store:       store,
		log:         logger,
		idleTimeout: idleTimeout,
	}
	s.touch()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(s.trackActivity)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/format", s.handleFormat)

	s.router = r
}

// Run serves on addr until ctx is cancelled or the idle timeout fires,
// then drains in-flight requests and flushes the store.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	go s.watchIdle(ctx, stop)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("daemon listening", "addr", addr, "idle_timeout", s.idleTimeout)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown did not drain cleanly", "error", err)
	}
	if err := s.store.Flush(context.Background()); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "flushing cache on shutdown")
	}
	s.log.Info("daemon stopped")
	return nil
}

// watchIdle stops the daemon once no request has arrived for the idle
// timeout.
func (s *Server) watchIdle(ctx context.Context, stop context.CancelFunc) {
	ticker := time.NewTicker(s.idleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			last := time.Unix(0, s.lastActivity.Load())
			if time.Since(last) >= s.idleTimeout {
				s.log.Info("idle timeout reached, stopping", "idle", time.Since(last))
				stop()
				return
			}
		}
	}
}

func (s *Server) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

func (s *Server) trackActivity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.touch()
		next.ServeHTTP(w, r)
		s.touch()
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// FormatRequest is one batch of units to format. Config, when present,
// overrides the daemon's configuration for this request only.
type FormatRequest struct {
	Units  []pipeline.Unit `json:"units"`
	Config *config.Config  `json:"config,omitempty"`
}

// FormatResponse mirrors pipeline results; Error carries the message of
// a per-unit failure.
type FormatResponse struct {
	Results []UnitResult `json:"results"`
}

// UnitResult is the wire form of one pipeline.Result.
type UnitResult struct {
	Path     string `json:"path"`
	Verdict  string `json:"verdict,omitempty"`
	Output   string `json:"output,omitempty"`
	CacheHit bool   `json:"cache_hit,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

// handleFormat formats a batch. A malformed request or a failing unit
// is that request's problem alone; the daemon keeps serving.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(err, errors.ErrCodeChannelError, "undecodable format request"))
		return
	}
	if len(req.Units) == 0 {
		writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeChannelError, "format request carries no units"))
		return
	}

	runner := s.runner
	if req.Config != nil {
		if err := req.Config.Validate(); err != nil {
			writeError(w, http.StatusBadRequest,
				errors.Wrap(err, errors.ErrCodeChannelError, "unusable request config"))
			return
		}
		runner = pipeline.NewRunner(s.store, *req.Config, s.log)
	}
	for i, u := range req.Units {
		if u.Kind == "" {
			req.Units[i].Kind = pipeline.KindFor(u.Path, runner.Config)
		}
	}

	coord := pipeline.Coordinator{Runner: runner}
	results := coord.Run(r.Context(), req.Units)

	resp := FormatResponse{Results: make([]UnitResult, len(results))}
	for i, res := range results {
		ur := UnitResult{
			Path:     res.Path,
			Verdict:  string(res.Verdict),
			Output:   res.Output,
			CacheHit: res.CacheHit,
		}
		if res.Err != nil {
			ur.Error = res.Err.Error()
			ur.Code = string(errors.GetCode(res.Err))
		}
		resp.Results[i] = ur
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(errors.GetCode(err)),
	})
}
