// Package http exposes the engine's commands over HTTP, Server-Sent Events
// and WebSocket.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// Engine is the command surface served over HTTP.
type Engine interface {
	Execute(ctx context.Context, cmd domain.Command) (any, error)
	Dispatch(ctx context.Context, cmd domain.Command) domain.Response
}

// Server holds the handler dependencies.
type Server struct {
	Engine  Engine
	Stream  *observability.Stream
	Metrics http.Handler

	origins []string
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithStream enables GET /events and GET /ws.
func WithStream(stream *observability.Stream) Option {
	return func(s *Server) {
		s.Stream = stream
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithAllowedOrigins sets the CORS origins (default "*").
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		origins: []string{"*"},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Get("/ping", s.command(domain.CmdPing))
	r.Post("/commands", s.Commands)

	r.Get("/tours", s.command(domain.CmdGetTours))
	r.Post("/tours/refresh", s.command(domain.CmdFetchTours))

	r.Route("/tour", func(r chi.Router) {
		r.Post("/start", s.StartTour)
		r.Post("/stop", s.command(domain.CmdStopTour))
		r.Post("/next", s.command(domain.CmdNextStep))
		r.Post("/prev", s.command(domain.CmdPrevStep))
		r.Post("/skip", s.command(domain.CmdSkipTour))
	})
	r.Get("/state", s.command(domain.CmdGetState))

	r.Get("/theme", s.command(domain.CmdGetTheme))
	r.Put("/theme", s.SetTheme)

	r.Delete("/progress", s.command(domain.CmdResetProgress))
	r.Delete("/progress/{tourId}", s.ResetProgress)

	if s.Stream != nil {
		r.Get("/events", s.SubscribeEvents)
		r.Get("/ws", s.ServeWS)
	}
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// command returns a handler running a body-less command.
func (s *Server) command(typ domain.CommandType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.execute(w, r, domain.Command{Type: typ})
	}
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, cmd domain.Command) {
	data, err := s.Engine.Execute(r.Context(), cmd)
	if err != nil {
		s.logger.Debug("command failed", "type", cmd.Type, "error", err)
		render.Status(r, statusFor(err))
		render.JSON(w, r, domain.Fail(err))
		return
	}
	render.JSON(w, r, domain.OK(data))
}

// statusFor maps engine errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTourNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoMatchingPage), errors.Is(err, domain.ErrNoActiveTour):
		return http.StatusConflict
	case errors.Is(err, clickpath.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// Commands handles POST /commands. It mirrors the extension message
// channel: the reply is always 200 with {success, data|error}.
func (s *Server) Commands(w http.ResponseWriter, r *http.Request) {
	var cmd domain.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, domain.Response{Error: "invalid request body"})
		return
	}
	render.JSON(w, r, s.Engine.Dispatch(r.Context(), cmd))
}

// StartTour handles POST /tour/start. The body is optional.
func (s *Server) StartTour(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TourID string `json:"tourId"`
	}
	if !decodeOptional(w, r, &body) {
		return
	}
	s.execute(w, r, domain.Command{Type: domain.CmdStartTour, TourID: body.TourID})
}

// SetTheme handles PUT /theme with {theme} or {colors}.
func (s *Server) SetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme  string         `json:"theme"`
		Colors map[string]any `json:"colors"`
	}
	if !decodeOptional(w, r, &body) {
		return
	}
	s.execute(w, r, domain.Command{Type: domain.CmdSetTheme, Theme: body.Theme, Colors: body.Colors})
}

// ResetProgress handles DELETE /progress/{tourId}.
func (s *Server) ResetProgress(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, domain.Command{Type: domain.CmdResetProgress, TourID: chi.URLParam(r, "tourId")})
}

func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, domain.Response{Error: "invalid request body"})
	return false
}
