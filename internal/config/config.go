package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Gemini analysis
	GeminiAPIKey string
	GeminiModel  string

	// Chunking
	ChunkSize int // characters per segment; 0 disables chunking (single shot)

	// Viability threshold: extracted text shorter than this is rejected.
	MinTextLength int

	// Upload limits
	MaxUploadBytes int64

	// Per-segment model call
	LLMTimeout time.Duration
	MaxRetries int

	// Merge defaults when the first segment yields no metadata.
	DefaultTitle   string
	DefaultSubject string

	// History store
	HistoryDB string

	// CORS
	AllowedOrigins []string

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored if present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8000"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),

		ChunkSize:     envInt("CHUNK_SIZE", 30000),
		MinTextLength: envInt("MIN_TEXT_LENGTH", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		LLMTimeout: envDuration("LLM_TIMEOUT", 90*time.Second),
		MaxRetries: envInt("MAX_RETRIES", 2),

		DefaultTitle:   envOr("DEFAULT_TITLE", "Untitled Document"),
		DefaultSubject: envOr("DEFAULT_SUBJECT", "General"),

		HistoryDB: envOr("HISTORY_DB", "studygen.db"),

		AllowedOrigins: []string{envOr("ALLOWED_ORIGINS", "*")},

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", false),
	}

	if cfg.ChunkSize < 0 {
		cfg.ChunkSize = 0
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 90 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
