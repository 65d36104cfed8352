package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/cryptopulse/cryptopulse/internal/config"
	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       domain.OracleService
	redis     *goredis.Client
	limiter   *rate.Limiter
	startTime time.Time
}

// NewServer builds the HTTP server. redisClient may be nil when the
// in-memory cache is in use; readiness then skips the Redis check.
func NewServer(cfg *config.Config, app domain.OracleService, redisClient *goredis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		redis:     redisClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.AnalyzeRatePerSecond), cfg.AnalyzeBurst),
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// rateLimitAnalyze bounds the analyze endpoint, which fans out to paid
// remote backends and the ledger.
func (s *Server) rateLimitAnalyze(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limiter.Allow() {
			return echo.NewHTTPError(429, "analyze rate limit exceeded")
		}
		return next(c)
	}
}
