package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nexusedu/studygen/internal/config"
	"github.com/nexusedu/studygen/internal/history"
	"github.com/nexusedu/studygen/internal/notes"
)

// DocumentProcessor runs the analysis pipeline for one uploaded document.
type DocumentProcessor interface {
	Process(ctx context.Context, filename string, data []byte) (notes.MasterRecord, error)
}

// HistoryStore is the read/clear surface the API exposes over history.
type HistoryStore interface {
	List(ctx context.Context) ([]history.Entry, error)
	Clear(ctx context.Context) error
}

// Server is the HTTP API server for studygen.
type Server struct {
	router    chi.Router
	processor DocumentProcessor
	history   HistoryStore
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(processor DocumentProcessor, hist HistoryStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		processor: processor,
		history:   hist,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Post("/analyze-document", s.handleAnalyzeDocument)
	r.Post("/generate-excel", s.handleGenerateExcel)
	r.Post("/generate-pdf", s.handleGeneratePDF)
	r.Get("/history", s.handleHistoryList)
	r.Delete("/history", s.handleHistoryClear)

	s.router = r
}
