package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
)

type analyzeRequest struct {
	Topic string   `json:"topic"`
	Posts []string `json:"posts"`
}

type sentimentResponse struct {
	Topic      string  `json:"topic"`
	VibeScore  int     `json:"vibeScore"`
	Confidence float64 `json:"confidence"`
	SampleSize int     `json:"sampleSize"`
	ComputedAt int64   `json:"computedAt,omitempty"`
	Trend      string  `json:"trend"`
	Default    bool    `json:"default,omitempty"`
}

func toSentimentResponse(topic string, score domain.Score) sentimentResponse {
	resp := sentimentResponse{
		Topic:      topic,
		VibeScore:  score.VibeScore,
		Confidence: score.Confidence,
		SampleSize: score.SampleSize,
		Trend:      trendLabel(score.VibeScore),
	}
	if !score.ComputedAt.IsZero() {
		resp.ComputedAt = score.ComputedAt.Unix()
	}
	return resp
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	for i, post := range req.Posts {
		if post == "" {
			return apperrors.ValidationError("posts must not contain empty entries").WithField("index", i)
		}
	}

	result, err := s.app.Analyze(c.Request().Context(), req.Topic, req.Posts)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSentiment(c echo.Context) error {
	topic := c.Param("topic")

	score, err := s.app.Latest(c.Request().Context(), topic)
	if errors.Is(err, domain.ErrTopicNotPublished) {
		// Never-analyzed topics read as the neutral default, with a
		// not-found status so callers can tell it apart from real data.
		resp := toSentimentResponse(topic, domain.NeutralScore())
		resp.Default = true
		if err := c.JSON(http.StatusNotFound, resp); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, toSentimentResponse(topic, score)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAllSentiments(c echo.Context) error {
	scores, err := s.app.AllLatest(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make(map[string]sentimentResponse, len(scores))
	for topic, score := range scores {
		resp[topic] = toSentimentResponse(topic, score)
	}

	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
