package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/freewrite/internal/config"
	"github.com/dgallion1/freewrite/internal/editor"
	"github.com/dgallion1/freewrite/internal/metrics"
	"github.com/dgallion1/freewrite/internal/suggest"
)

type Server struct {
	router   chi.Router
	session  *editor.Session
	stats    *suggest.LLMStats
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	model    string
	cfg      config.Config
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// Deps are the collaborators a Server serves. Metrics and Gatherer may be nil.
type Deps struct {
	Session  *editor.Session
	Stats    *suggest.LLMStats
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Model names the suggestion model in stats output.
	Model string
}

func NewServer(deps Deps, cfg config.Config, log *slog.Logger) *Server {
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 1 << 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	s := &Server{
		session:  deps.Session,
		stats:    deps.Stats,
		metrics:  deps.Metrics,
		gatherer: deps.Gatherer,
		model:    deps.Model,
		cfg:      cfg,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
	if s.stats == nil {
		s.stats = suggest.NewLLMStats(0)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log, s.metrics))

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.APIKey != "" {
			r.Use(AuthMiddleware(cfg.APIKey))
		}

		r.Get("/api/document", s.handleGetDocument)
		r.Put("/api/document", s.handlePutDocument)
		r.Post("/api/document/import", s.handleImport)

		r.Get("/api/instructions", s.handleGetInstructions)
		r.Put("/api/instructions", s.handlePutInstructions)

		r.Post("/api/edits", s.handleRequestEdits)
		r.Post("/api/edits/span", s.handleSpanEdits)

		r.Post("/api/staged/accept-all", s.handleAcceptAll)
		r.Post("/api/staged/decline-all", s.handleDeclineAll)
		r.Post("/api/staged/{id}/accept", s.handleAccept)
		r.Post("/api/staged/{id}/decline", s.handleDecline)

		r.Post("/api/undo", s.handleUndo)
		r.Post("/api/selection/copy", s.handleCopy)
		r.Post("/api/selection/delete", s.handleDelete)

		r.Get("/api/declined", s.handleDeclined)
		r.Get("/api/stats/llm", s.handleLLMStats)
		r.Get("/api/frames", s.handleFrames)

		r.Get("/api/api-key", s.handleCheckAPIKey)
		r.Post("/api/api-key", s.handleSetAPIKey)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
