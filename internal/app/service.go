package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
	"github.com/cryptopulse/cryptopulse/internal/feed"
	"github.com/cryptopulse/cryptopulse/internal/metrics"
	"github.com/cryptopulse/cryptopulse/internal/oracle"
)

// Each analyze request moves through these stages in order; any of the
// middle three can terminate the request.
const (
	stageScoring     = "scoring"
	stageNormalizing = "normalizing"
	stagePublishing  = "publishing"
)

// defaultTopic keys ledger writes for caller-supplied batches that carry
// no topic of their own.
const defaultTopic = "crypto"

// Service drives the analysis pipeline. Exactly one configured backend is
// invoked per request; on a backend transport failure the lexicon scorer
// acts as the terminal fallback when enabled. A structurally bad backend
// response (normalization failure) is never retried or defaulted.
type Service struct {
	primary   domain.Scorer
	fallback  domain.Scorer
	publisher *oracle.Publisher
}

// NewService wires the orchestrator. fallback may be nil to disable the
// fallback policy entirely.
func NewService(primary, fallback domain.Scorer, publisher *oracle.Publisher) *Service {
	return &Service{
		primary:   primary,
		fallback:  fallback,
		publisher: publisher,
	}
}

// Analyze scores a topic's post batch and publishes the result. When posts
// is empty the demo batch for the topic is synthesized; an empty topic and
// empty batch together are a caller error.
func (s *Service) Analyze(ctx context.Context, topic string, posts []string) (domain.AnalysisResult, error) {
	if len(posts) == 0 {
		if topic == "" {
			return domain.AnalysisResult{}, apperrors.ValidationError("topic or posts is required")
		}
		posts = feed.Posts(topic)
	}
	if topic == "" {
		// Caller-supplied batches without a topic still need a ledger key.
		topic = defaultTopic
	}

	backend := s.primary
	outcome, err := s.score(ctx, backend, posts)
	if err != nil {
		if s.fallback != nil && apperrors.IsType(err, apperrors.TypeBackend) {
			slog.Warn("Scoring backend failed, falling back to lexicon",
				"backend", backend.Name(), "topic", topic, "error", err)
			metrics.BackendFallbacksTotal.WithLabelValues(backend.Name()).Inc()

			backend = s.fallback
			outcome, err = s.score(ctx, backend, posts)
		}
		if err != nil {
			stage := stageScoring
			if apperrors.IsType(err, apperrors.TypeNormalization) {
				stage = stageNormalizing
			}
			metrics.AnalyzeRequestsTotal.WithLabelValues(backend.Name(), stage+"_failed").Inc()
			return domain.AnalysisResult{}, err
		}
	}

	score, txID, err := s.publisher.Publish(ctx, topic, outcome)
	if err != nil {
		metrics.AnalyzeRequestsTotal.WithLabelValues(backend.Name(), stagePublishing+"_failed").Inc()
		return domain.AnalysisResult{}, err
	}

	metrics.AnalyzeRequestsTotal.WithLabelValues(backend.Name(), "completed").Inc()
	slog.Info("Analysis completed",
		"topic", topic,
		"backend", backend.Name(),
		"vibe_score", score.VibeScore,
		"sample_size", score.SampleSize,
		"tx_id", txID,
	)

	return domain.AnalysisResult{
		VibeScore:     score.VibeScore,
		TransactionID: txID,
		Message:       "Sentiment analyzed and pushed on-chain",
	}, nil
}

func (s *Service) score(ctx context.Context, backend domain.Scorer, posts []string) (domain.Outcome, error) {
	start := time.Now()
	outcome, err := backend.Score(ctx, posts)
	metrics.BackendCallDuration.WithLabelValues(backend.Name()).Observe(time.Since(start).Seconds())
	return outcome, err
}

// Latest returns the cached score for a topic, reading through to the
// ledger on a miss.
func (s *Service) Latest(ctx context.Context, topic string) (domain.Score, error) {
	return s.publisher.Latest(ctx, topic)
}

// AllLatest returns the latest score for every known topic.
func (s *Service) AllLatest(ctx context.Context) (map[string]domain.Score, error) {
	topics, err := s.publisher.Topics(ctx)
	if err != nil {
		return nil, apperrors.InternalError("failed to list topics", err)
	}

	scores := make(map[string]domain.Score, len(topics))
	for _, topic := range topics {
		score, err := s.publisher.Latest(ctx, topic)
		if err != nil {
			return nil, err
		}
		scores[topic] = score
	}
	return scores, nil
}
