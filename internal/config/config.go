package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Backend selection values for the SCORING_BACKEND variable.
const (
	BackendLexicon    = "lexicon"
	BackendClassifier = "classifier"
	BackendGenerative = "generative"
)

// Ledger modes for the LEDGER_MODE variable.
const (
	LedgerSimulated = "simulated"
	LedgerRelay     = "relay"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	ScoringBackend    string `env:"SCORING_BACKEND" default:"classifier"`
	FallbackToLexicon bool   `env:"FALLBACK_TO_LEXICON" default:"true"`

	HFAPIURL string `env:"HF_API_URL" default:"https://router.huggingface.co/hf-inference/models/cardiffnlp/twitter-roberta-base-sentiment-latest"`
	HFToken  string `env:"HF_TOKEN"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	LedgerMode     string `env:"LEDGER_MODE" default:"simulated"`
	LedgerRelayURL string `env:"LEDGER_RELAY_URL"`
	UpdaterAddress string `env:"UPDATER_ADDRESS" default:"0x0000000000000000000000000000000000000000"`

	RedisURL string `env:"REDIS_URL"`

	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" default:"20s"`
	LedgerTimeout  time.Duration `env:"LEDGER_TIMEOUT" default:"30s"`

	AnalyzeRatePerSecond float64 `env:"ANALYZE_RATE_PER_SECOND" default:"5"`
	AnalyzeBurst         int     `env:"ANALYZE_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.ScoringBackend {
	case BackendLexicon, BackendClassifier, BackendGenerative:
	default:
		return fmt.Errorf("SCORING_BACKEND must be one of lexicon, classifier, generative (got %q)", cfg.ScoringBackend)
	}

	if cfg.ScoringBackend == BackendClassifier && cfg.HFToken == "" {
		return fmt.Errorf("HF_TOKEN is required when SCORING_BACKEND is classifier")
	}
	if cfg.ScoringBackend == BackendGenerative && cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when SCORING_BACKEND is generative")
	}

	switch cfg.LedgerMode {
	case LedgerSimulated, LedgerRelay:
	default:
		return fmt.Errorf("LEDGER_MODE must be simulated or relay (got %q)", cfg.LedgerMode)
	}

	if cfg.LedgerMode == LedgerRelay && cfg.LedgerRelayURL == "" {
		return fmt.Errorf("LEDGER_RELAY_URL is required when LEDGER_MODE is relay")
	}
	if cfg.LedgerMode == LedgerRelay && cfg.AppEnv == "production" && cfg.UpdaterAddress == "0x0000000000000000000000000000000000000000" {
		return fmt.Errorf("UPDATER_ADDRESS is required in production relay mode")
	}

	if cfg.AnalyzeRatePerSecond <= 0 {
		return fmt.Errorf("ANALYZE_RATE_PER_SECOND must be positive")
	}

	return nil
}
