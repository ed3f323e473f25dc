package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexusedu/studygen/internal/analyze"
	"github.com/nexusedu/studygen/internal/api"
	"github.com/nexusedu/studygen/internal/config"
	"github.com/nexusedu/studygen/internal/history"
	"github.com/nexusedu/studygen/internal/notes"
	"github.com/nexusedu/studygen/internal/parser"
	"github.com/nexusedu/studygen/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		// The service still starts; analysis calls will fail until a key is set.
		log.Warn("GEMINI_API_KEY is not set, document analysis will be unavailable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	gemini, err := analyze.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	}

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Error("failed to open history store", "path", cfg.HistoryDB, "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	extractor := &parser.PDF{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	analyzer := analyze.NewAnalyzer(gemini, log, cfg.LLMTimeout, cfg.MaxRetries)
	orch := pipeline.NewOrchestrator(extractor, analyzer, hist, log, cfg.ChunkSize, cfg.MinTextLength, notes.Defaults{
		Title:   cfg.DefaultTitle,
		Subject: cfg.DefaultSubject,
	})

	// Initialize HTTP server.
	srv := api.NewServer(orch, hist, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		gemini.Close()
		hist.Close()
	}()

	log.Info("starting studygen", "port", cfg.Port, "model", cfg.GeminiModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
