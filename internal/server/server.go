package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jonathan/smarthire/internal/recruiting"
	"github.com/jonathan/smarthire/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	svc         *recruiting.Service
	log         *zap.Logger
	rateLimiter *ratelimit.Limiter

	shutdownTimeout time.Duration
	keepAlive       time.Duration

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// Config holds server configuration
type Config struct {
	Port            int
	ShutdownTimeout time.Duration
	// RateLimit defaults to a disabled limiter when nil.
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
	// KeepAlive is the idle interval between event stream pings.
	KeepAlive time.Duration
}

// New creates a new server instance
func New(svc *recruiting.Service, cfg Config) *Server {
	s := &Server{
		svc:             svc,
		log:             cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
		keepAlive:       cfg.KeepAlive,
		shutdown:        make(chan struct{}),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}
	if s.keepAlive <= 0 {
		s.keepAlive = 15 * time.Second
	}
	rl := cfg.RateLimit
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /search", s.handleSearch)

	// Jobs
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("POST /jobs/description", s.handleGenerateDescription)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDeleteJob)
	mux.HandleFunc("GET /jobs/{id}/candidates", s.handleJobCandidates)
	mux.HandleFunc("GET /jobs/{id}/candidates.csv", s.handleExportJobCandidates)
	mux.HandleFunc("POST /sourcing", s.handleSourcingStrategy)

	// Candidates
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("POST /candidates/screen", s.handleScreenCandidate)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PATCH /candidates/{id}", s.handleUpdateCandidate)
	mux.HandleFunc("DELETE /candidates/{id}", s.handleDeleteCandidate)
	mux.HandleFunc("POST /candidates/{id}/status", s.handleSetStatus)
	mux.HandleFunc("POST /candidates/{id}/advance", s.handleAdvance)
	mux.HandleFunc("POST /candidates/{id}/reject", s.handleReject)
	mux.HandleFunc("POST /candidates/{id}/restore", s.handleRestore)
	mux.HandleFunc("GET /candidates/{id}/actions", s.handleCandidateActions)
	mux.HandleFunc("GET /candidates/{id}/export.csv", s.handleExportCandidate)

	// Candidate assistants
	mux.HandleFunc("POST /candidates/{id}/interview-questions", s.handleInterviewQuestions)
	mux.HandleFunc("POST /candidates/{id}/background-check", s.handleBackgroundCheck)
	mux.HandleFunc("POST /candidates/{id}/salary-estimate", s.handleSalaryEstimate)
	mux.HandleFunc("POST /candidates/{id}/offer", s.handleOffer)

	// Notifications and toasts
	mux.HandleFunc("GET /notifications", s.handleListNotifications)
	mux.HandleFunc("POST /notifications/read-all", s.handleMarkAllRead)
	mux.HandleFunc("GET /notifications/stream", s.handleNotificationStream)
	mux.HandleFunc("GET /toasts", s.handleListToasts)
	mux.HandleFunc("DELETE /toasts/{id}", s.handleDismissToast)

	// Session
	mux.HandleFunc("GET /onboarding", s.handleGetOnboarding)
	mux.HandleFunc("PUT /onboarding", s.handleSetOnboarding)
	mux.HandleFunc("POST /onboarding/next", s.handleNextOnboarding)
	mux.HandleFunc("POST /onboarding/skip", s.handleSkipOnboarding)
	mux.HandleFunc("GET /usage", s.handleGetUsage)
	mux.HandleFunc("POST /usage/reset", s.handleResetUsage)
	mux.HandleFunc("POST /demo", s.handleLoadDemo)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.handler,
		ReadTimeout: 30 * time.Second,
		// Agent calls may take up to the agent timeout; the event stream
		// clears its own deadline.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.httpServer.RegisterOnShutdown(s.closeStreams)

	return s
}

// Handler returns the complete middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// closeStreams ends open event streams so Shutdown can drain them.
func (s *Server) closeStreams() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if rec.status >= http.StatusInternalServerError {
			s.log.Warn("request failed", fields...)
			return
		}
		s.log.Info("request", fields...)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"agents_available": s.svc.AgentsAvailable(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status code and writes it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request error", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &ErrBadRequest{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// csvResponse sends content as a CSV download.
func csvResponse(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, content) //nolint:errcheck
}

// extractClientID extracts the client identifier (remote IP) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Tier", string(info.Tier))
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// tierMessages explain a 429 in terms of the exhausted allowance.
var tierMessages = map[ratelimit.Tier]string{
	ratelimit.TierAgent: "AI assistant quota exceeded. Screening, sourcing and other assistant calls share this allowance.",
	ratelimit.TierWrite: "Too many changes in a short time. Please slow down.",
	ratelimit.TierRead:  "Rate limit exceeded. Please try again later.",
}

// rateLimitResponse writes a 429 naming the exhausted tier, or a 403 for
// blacklisted clients.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.Tier == ratelimit.TierBlocked {
		s.log.Warn("blocked client rejected",
			zap.String("client", s.extractClientID(r)),
			zap.String("path", r.URL.Path))
		s.jsonResponse(w, http.StatusForbidden, map[string]any{
			"error":   "client_blocked",
			"message": "This client is not allowed to use the API.",
		})
		return
	}

	message, ok := tierMessages[info.Tier]
	if !ok {
		message = tierMessages[ratelimit.TierRead]
	}
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"tier":      info.Tier,
		"message":   message,
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retry := int(math.Ceil(info.RetryAfter.Seconds()))
		response["retry_after"] = retry
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
	}

	s.log.Info("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("tier", string(info.Tier)),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
