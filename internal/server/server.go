package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/audit"
	"github.com/gsanchezu/elasticbox-plugin/internal/descriptor"
	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/watch"
)

// Recorder receives one audit event per request.
type Recorder interface {
	Record(eventType audit.EventType, cloud, target, details string)
}

// Config holds server configuration
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Clouds resolves cloud names to clients
	Clouds descriptor.CloudSource

	// Audit records requests per cloud (nil = no journal)
	Audit Recorder

	// Monitor, when set, supplies the cloud probes reported by /healthz
	Monitor *watch.Monitor

	// RateLimitRequests is the max requests per client per window (0 = unlimited)
	RateLimitRequests int

	// RateLimitWindow is the rate limit window duration
	RateLimitWindow time.Duration

	// Logger for server operations
	Logger *slog.Logger
}

// Handler serves the descriptor helpers as JSON
type Handler struct {
	config      *Config
	mux         *http.ServeMux
	rateLimiter *rateLimiter
}

// New creates a new handler
func New(cfg *Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	h := &Handler{
		config: cfg,
		mux:    http.NewServeMux(),
	}
	if cfg.RateLimitRequests > 0 {
		h.rateLimiter = newRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /api/clouds", h.clouds)
	h.mux.HandleFunc("GET /api/clouds/{cloud}/check", h.checkCloud)
	h.mux.HandleFunc("GET /api/clouds/{cloud}/workspaces", h.withClient(h.workspaces))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/workspaces/{workspace}/boxes", h.withClient(h.boxes))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/workspaces/{workspace}/profiles", h.withClient(h.profiles))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/workspaces/{workspace}/instances", h.withClient(h.instances))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/boxes/{box}/versions", h.withClient(h.boxVersions))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/boxes/{box}/stack", h.withClient(h.boxStack))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/boxes/{box}/check", h.checkBox)
	h.mux.HandleFunc("GET /api/clouds/{cloud}/instances/{instance}/stack", h.withClient(h.instanceStack))
	h.mux.HandleFunc("GET /api/clouds/{cloud}/instances/{instance}/variables", h.withClient(h.instanceVariables))

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if h.rateLimiter != nil {
		if !h.rateLimiter.allow(clientIP(r.RemoteAddr)) {
			h.config.Logger.Warn("rate limit exceeded", "remote", r.RemoteAddr)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	h.mux.ServeHTTP(lw, r)

	h.config.Logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", lw.statusCode,
		"duration", time.Since(startTime),
		"remote", r.RemoteAddr)

	if cloud := r.PathValue("cloud"); cloud != "" && h.config.Audit != nil {
		h.config.Audit.Record(audit.EventRequest, cloud, r.URL.Path, http.StatusText(lw.statusCode))
	}
}

// Close releases background resources
func (h *Handler) Close() {
	if h.rateLimiter != nil {
		h.rateLimiter.stop()
	}
}

type clientHandler func(w http.ResponseWriter, r *http.Request, c elasticbox.Client)

// withClient resolves the {cloud} path value to a client. An unknown cloud
// degrades to an empty array.
func (h *Handler) withClient(next clientHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cloud := r.PathValue("cloud")
		c, err := h.client(r.Context(), cloud)
		if err != nil {
			h.config.Logger.Error("cannot connect to cloud", "cloud", cloud, "error", err)
			if h.config.Audit != nil {
				h.config.Audit.Record(audit.EventError, cloud, r.URL.Path, err.Error())
			}
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		next(w, r, c)
	}
}

func (h *Handler) client(ctx context.Context, cloud string) (elasticbox.Client, error) {
	return h.config.Clouds.Client(ctx, cloud)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Status string              `json:"status"`
		Clouds []watch.CheckResult `json:"clouds"`
	}{Status: "ok", Clouds: []watch.CheckResult{}}
	if h.config.Monitor != nil {
		if results := h.config.Monitor.Results(); results != nil {
			body.Clouds = results
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) clouds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, descriptor.Clouds(h.config.Clouds))
}

func (h *Handler) checkCloud(w http.ResponseWriter, r *http.Request) {
	cloud := r.PathValue("cloud")
	v := descriptor.CheckCloud(r.Context(), h.config.Clouds, cloud)
	h.recordCheck(cloud, cloud, v)
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) checkBox(w http.ResponseWriter, r *http.Request) {
	cloud, box := r.PathValue("cloud"), r.PathValue("box")
	var v descriptor.Validation
	c, err := h.client(r.Context(), cloud)
	if err != nil {
		v = descriptor.Failed(err.Error())
	} else {
		v = descriptor.CheckAgentBox(r.Context(), c, box)
	}
	h.recordCheck(cloud, box, v)
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) recordCheck(cloud, target string, v descriptor.Validation) {
	if h.config.Audit == nil {
		return
	}
	details := string(v.Level)
	if v.Message != "" {
		details += ": " + v.Message
	}
	h.config.Audit.Record(audit.EventCheck, cloud, target, details)
}

func (h *Handler) workspaces(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	writeJSON(w, http.StatusOK, descriptor.Workspaces(r.Context(), c))
}

func (h *Handler) boxes(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	writeJSON(w, http.StatusOK, descriptor.Boxes(r.Context(), c, r.PathValue("workspace")))
}

func (h *Handler) profiles(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	box := r.URL.Query().Get("box")
	writeJSON(w, http.StatusOK, descriptor.Profiles(r.Context(), c, r.PathValue("workspace"), box))
}

func (h *Handler) instances(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	box := r.URL.Query().Get("box")
	if box == "" {
		box = descriptor.AnyBox
	}
	writeJSON(w, http.StatusOK, descriptor.InstanceOptions(r.Context(), c, r.PathValue("workspace"), box))
}

func (h *Handler) boxVersions(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	writeJSON(w, http.StatusOK, descriptor.BoxVersions(r.Context(), c, r.PathValue("box")))
}

func (h *Handler) boxStack(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	writeJSON(w, http.StatusOK, descriptor.BoxStack(r.Context(), c, r.PathValue("box")))
}

func (h *Handler) instanceStack(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	writeJSON(w, http.StatusOK, descriptor.InstanceBoxStack(r.Context(), c, r.PathValue("instance")))
}

func (h *Handler) instanceVariables(w http.ResponseWriter, r *http.Request, c elasticbox.Client) {
	writeJSON(w, http.StatusOK, descriptor.InstanceVariables(r.Context(), c, r.PathValue("instance")))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.ResponseWriter.WriteHeader(code)
}

// rateLimiter implements per-client rate limiting
type rateLimiter struct {
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time
	mu          sync.Mutex
	stopClean   chan struct{}
	stopOnce    sync.Once
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	rl := &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		stopClean:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.maxRequests {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// cleanupLoop periodically removes stale entries from the requests map.
func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopClean:
			return
		}
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := time.Now().Add(-rl.window)
	for key, reqs := range rl.requests {
		var valid []time.Time
		for _, t := range reqs {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.stopClean) })
}

// Server wraps the handler with lifecycle management
type Server struct {
	handler *Handler
	server  *http.Server
}

// NewServer creates a new server
func NewServer(cfg *Config) *Server {
	handler := New(cfg)
	return &Server{
		handler: handler,
		server: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start starts the server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.handler.config.Logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	s.handler.config.Logger.Info("starting server", "addr", l.Addr().String())
	return s.server.Serve(l)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.handler.Close()
	return s.server.Shutdown(ctx)
}
