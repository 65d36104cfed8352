package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Analysis pipeline
	s.echo.POST("/analyze", s.handleAnalyze, s.rateLimitAnalyze)

	// Cached sentiment reads
	s.echo.GET("/sentiment", s.handleAllSentiments)
	s.echo.GET("/sentiment/:topic", s.handleSentiment)
}
