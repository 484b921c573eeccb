// Package webserver provides the HTTP surface of the recipe assistant:
// the chat page, an HTMX fragment endpoint, a JSON API, and the
// operational endpoints.
package webserver

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/infrastructure/config"
	"github.com/alchemorsel/souschef/internal/infrastructure/monitoring"
	"github.com/alchemorsel/souschef/internal/infrastructure/search"
	"github.com/alchemorsel/souschef/internal/ports/inbound"
	"github.com/alchemorsel/souschef/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server hosts the chat application over HTTP.
type Server struct {
	config    *config.Config
	chat      inbound.ChatService
	index     *search.Holder
	sessions  *SessionStore
	metrics   *monitoring.Metrics
	validate  *validator.Validate
	templates *template.Template
	logger    *zap.Logger
	http      *http.Server
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(
	cfg *config.Config,
	chat inbound.ChatService,
	index *search.Holder,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) (*Server, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		config:    cfg,
		chat:      chat,
		index:     index,
		sessions:  NewSessionStore(),
		metrics:   metrics,
		validate:  validator.New(),
		templates: templates,
		logger:    logger,
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Post("/chat", s.handleChatFragment)
	r.Post("/api/chat", s.handleChatAPI)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// observe logs each request and feeds the HTTP metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		// The route pattern keeps the metric label set bounded.
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Method, route, ww.Status(), duration)
		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", duration),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.GetOrCreate(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "chat.html", map[string]any{
		"History": s.sessions.History(session.ID),
	}); err != nil {
		s.logger.Error("Failed to render chat page", zap.Error(err))
	}
}

// handleChatFragment serves the HTMX form post and returns just the new
// exchange markup to append to the conversation.
func (s *Server) handleChatFragment(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.GetOrCreate(w, r)
	message := r.FormValue("message")

	resp, err := s.chat.Ask(r.Context(), session.ID, message)
	if err != nil {
		s.logger.Error("Chat turn failed", zap.Error(err))
		http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
		return
	}

	exchange := Exchange{
		Question:  message,
		ReplyHTML: template.HTML(resp.ReplyHTML),
		Outcome:   resp.Outcome,
		At:        time.Now(),
	}
	s.sessions.Append(session.ID, exchange)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "exchange.html", exchange); err != nil {
		s.logger.Error("Failed to render exchange", zap.Error(err))
	}
}

type chatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type chatResponse struct {
	SessionID string                `json:"session_id"`
	ReplyHTML string                `json:"reply_html"`
	Outcome   inbound.ChatOutcome   `json:"outcome"`
	Matches   []inbound.RecipeMatch `json:"matches,omitempty"`
}

func (s *Server) handleChatAPI(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.GetOrCreate(w, r)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, errors.NewInvalidQueryError(err.Error()))
		return
	}

	resp, err := s.chat.Ask(r.Context(), session.ID, req.Message)
	if err != nil {
		s.logger.Error("Chat turn failed", zap.Error(err))
		s.writeError(w, r, errors.Wrap(err, "chat turn failed"))
		return
	}

	s.sessions.Append(session.ID, Exchange{
		Question:  req.Message,
		ReplyHTML: template.HTML(resp.ReplyHTML),
		Outcome:   resp.Outcome,
		At:        time.Now(),
	})

	s.writeJSON(w, http.StatusOK, chatResponse{
		SessionID: session.ID,
		ReplyHTML: resp.ReplyHTML,
		Outcome:   resp.Outcome,
		Matches:   resp.Matches,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"app":    s.config.App.Name,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	index := s.index.Get()
	if index == nil || index.Size() == 0 {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "index not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ready",
		"recipes": index.Size(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err *errors.AppError) {
	s.writeJSON(w, err.StatusCode(), errors.ToErrorResponse(err, middleware.GetReqID(r.Context())))
}

// Start begins serving. It returns once the listener stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	s.sessions.Close()
	return s.http.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
