package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cryptopulse/cryptopulse/internal/app"
	"github.com/cryptopulse/cryptopulse/internal/config"
	"github.com/cryptopulse/cryptopulse/internal/domain"
	"github.com/cryptopulse/cryptopulse/internal/logging"
	"github.com/cryptopulse/cryptopulse/internal/oracle"
	"github.com/cryptopulse/cryptopulse/internal/scorer"
	"github.com/cryptopulse/cryptopulse/internal/server"
	"github.com/cryptopulse/cryptopulse/internal/store"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupStore(ctx context.Context, cfg *config.Config) (domain.LatestStore, *goredis.Client) {
	if cfg.RedisURL == "" {
		slog.Info("Using in-memory latest-score cache")
		return store.NewMemory(), nil
	}

	client, err := store.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Using Redis latest-score cache")
	return store.NewRedis(client), client
}

func setupLedger(cfg *config.Config, clock clockwork.Clock) domain.Ledger {
	if cfg.LedgerMode == config.LedgerRelay {
		slog.Info("Using relay ledger", "url", cfg.LedgerRelayURL)
		return oracle.NewHTTPRelay(cfg.LedgerRelayURL, cfg.LedgerTimeout)
	}
	slog.Info("Using simulated ledger, writes return sentinel transaction ids")
	return oracle.NewSimulated(clock)
}

func setupScorer(ctx context.Context, cfg *config.Config) (primary domain.Scorer, cleanup func()) {
	cleanup = func() {}

	switch cfg.ScoringBackend {
	case config.BackendClassifier:
		client := scorer.NewClassifierClient(cfg.HFAPIURL, cfg.HFToken, cfg.BackendTimeout)
		primary = scorer.NewClassifier(client)
	case config.BackendGenerative:
		generative, err := scorer.NewGenerative(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to create generative scorer", "error", err)
			os.Exit(1)
		}
		primary = generative
		cleanup = func() { _ = generative.Close() }
	default:
		primary = scorer.NewLexicon()
	}

	return primary, cleanup
}

func runGracefulShutdown(srv *server.Server, redisClient *goredis.Client) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				slog.Error("Redis close error", "error", err)
			}
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()
	ctx := context.Background()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"backend", cfg.ScoringBackend,
		"ledger_mode", cfg.LedgerMode,
	)

	cache, redisClient := setupStore(ctx, cfg)
	ledger := setupLedger(cfg, clock)

	primary, cleanup := setupScorer(ctx, cfg)
	defer cleanup()

	var fallback domain.Scorer
	if cfg.FallbackToLexicon && cfg.ScoringBackend != config.BackendLexicon {
		fallback = scorer.NewLexicon()
	}

	publisher := oracle.NewPublisher(ledger, cache, clock, cfg.UpdaterAddress)
	appSvc := app.NewService(primary, fallback, publisher)

	srv := server.NewServer(cfg, appSvc, redisClient)

	done := runGracefulShutdown(srv, redisClient)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
