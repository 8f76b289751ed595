package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/goxlr-daemon/goxlrd/internal/api/middleware"
	"github.com/goxlr-daemon/goxlrd/internal/config"
	"github.com/goxlr-daemon/goxlrd/internal/ipc"
	"github.com/goxlr-daemon/goxlrd/internal/supervisor"
)

// Server holds HTTP handler dependencies and the chi router. It mounts
// the §6 IPC/HTTP/WebSocket collaborator contract: Ping, GetStatus and
// DeviceCommand requests over HTTP, and unsolicited status patches over
// WebSocket.
type Server struct {
	router     *chi.Mux
	dispatcher *ipc.Dispatcher
	sup        *supervisor.Supervisor
	cfg        *config.Config
}

// NewServer creates the HTTP handler with all routes mounted.
func NewServer(sup *supervisor.Supervisor, cfg *config.Config) (*Server, error) {
	secret, err := cfg.JWTSecretBytes()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:     chi.NewRouter(),
		dispatcher: ipc.NewDispatcher(sup),
		sup:        sup,
		cfg:        cfg,
	}

	s.routes(secret)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes configures all middleware and mounts all route groups.
func (s *Server) routes(jwtSecret []byte) {
	r := s.router

	// Global middleware stack.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CORS(middleware.ParseCORSOrigins(s.cfg.CORSOrigins)))
	r.Use(middleware.StructuredLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(false))

	limiter := middleware.NewIPRateLimiter(middleware.DefaultRateLimitConfig())
	r.Use(middleware.RateLimit(limiter))

	r.Get("/api/v1/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))

		r.Post("/api/v1/ping", s.handlePing)
		r.Get("/api/v1/status", s.handleGetStatus)
		r.Post("/api/v1/command", s.handleDeviceCommand)
		r.Get("/api/v1/ws", s.handleWebSocket)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	slog.Info("api routes mounted")
}

// handleHealth reports basic liveness; unauthenticated so load balancers
// and the CLI's connectivity check don't need a token.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"devices": len(s.sup.Serials()),
	})
}

// handlePing answers the §6 Ping request over plain HTTP.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, ipc.Request{Kind: ipc.RequestPing})
}

// handleGetStatus answers the §6 GetStatus request.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, ipc.Request{Kind: ipc.RequestGetStatus})
}

// handleDeviceCommand decodes a §6 DeviceCommand envelope from the
// request body and dispatches it.
func (s *Server) handleDeviceCommand(w http.ResponseWriter, r *http.Request) {
	var req ipc.Request
	if msg := readJSON(r, &req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Kind != ipc.RequestDeviceCommand {
		writeError(w, http.StatusBadRequest, "request must be a DeviceCommand envelope")
		return
	}
	s.respond(w, r, req)
}

// respond runs req through the Dispatcher and writes the resulting
// Response as the HTTP body, translating an Err response into the
// matching HTTP status so non-IPC-aware clients (curl, monitoring)
// still see a meaningful code.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, req ipc.Request) {
	reqID := uuid.New().String()
	ctx := r.Context()

	resp := s.dispatcher.Handle(ctx, req)
	status := http.StatusOK
	if resp.Kind == ipc.ResponseErr {
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", reqID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("api: failed to encode response", "error", err, "request_id", reqID)
	}
}

// writeConnDeadline bounds how long a WebSocket write may block before a
// slow reader is dropped, mirroring the Supervisor's own non-blocking
// broadcast semantics (internal/supervisor/broadcast.go) at the network
// edge.
const writeConnDeadline = 5 * time.Second
