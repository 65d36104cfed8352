package oracle

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
	"github.com/cryptopulse/cryptopulse/internal/metrics"
	"github.com/cryptopulse/cryptopulse/internal/scorer"
)

// Publisher commits normalized outcomes to the ledger and keeps the
// latest-score cache consistent with committed state: the cache is written
// only after the ledger write succeeds, and a failed publish leaves it
// exactly as it was.
type Publisher struct {
	ledger  domain.Ledger
	cache   domain.LatestStore
	clock   clockwork.Clock
	updater string
	reads   singleflight.Group
}

func NewPublisher(ledger domain.Ledger, cache domain.LatestStore, clock clockwork.Clock, updater string) *Publisher {
	return &Publisher{
		ledger:  ledger,
		cache:   cache,
		clock:   clock,
		updater: updater,
	}
}

// Publish writes one record to the ledger and returns the committed Score
// and transaction id. Publishing the same outcome twice is safe: every
// write is a full state replacement, so a repeat simply overwrites the
// current record with identical values.
func (p *Publisher) Publish(ctx context.Context, topic string, out domain.Outcome) (domain.Score, string, error) {
	score := domain.Score{
		VibeScore:  scorer.ClampScore(out.VibeScore),
		Confidence: out.Confidence,
		SampleSize: out.SampleSize,
		ComputedAt: p.clock.Now().UTC(),
	}

	rec := domain.Record{
		Topic:      topic,
		VibeScore:  DisplayToLedger(score.VibeScore),
		Confidence: int64(math.Round(score.Confidence * 10)),
		SampleSize: int64(score.SampleSize),
		Timestamp:  score.ComputedAt.Unix(),
		Updater:    p.updater,
	}

	start := p.clock.Now()
	txID, err := p.ledger.Update(ctx, topic, rec)
	metrics.LedgerWriteDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		metrics.LedgerWritesTotal.WithLabelValues("error").Inc()
		return domain.Score{}, "", apperrors.PublishError("ledger write rejected", err).WithField("topic", topic)
	}
	metrics.LedgerWritesTotal.WithLabelValues("ok").Inc()
	metrics.PublishedVibeScore.WithLabelValues(topic).Set(float64(score.VibeScore))

	if err := p.cache.Set(ctx, topic, score); err != nil {
		// The ledger holds the new record but the fast path does not.
		// Reads fall back to the ledger, so surface the fault instead of
		// claiming a clean publish.
		return domain.Score{}, "", apperrors.InternalError("failed to cache published score", err).WithField("topic", topic)
	}

	// Mirror of the contract's SentimentUpdated event.
	slog.Info("SentimentUpdated",
		"topic", topic,
		"vibe_score", rec.VibeScore,
		"confidence", rec.Confidence,
		"sample_size", rec.SampleSize,
		"timestamp", rec.Timestamp,
		"tx_id", txID,
		"simulated", IsSimulatedTx(txID),
	)

	return score, txID, nil
}

// Latest returns the cached score for a topic, falling back to a ledger
// read on a cache miss. Concurrent misses for the same topic share one
// ledger read. Returns domain.ErrTopicNotPublished for unknown topics.
func (p *Publisher) Latest(ctx context.Context, topic string) (domain.Score, error) {
	score, ok, err := p.cache.Get(ctx, topic)
	if err != nil {
		return domain.Score{}, apperrors.InternalError("failed to read score cache", err).WithField("topic", topic)
	}
	if ok {
		return score, nil
	}

	v, err, _ := p.reads.Do(topic, func() (any, error) {
		rec, err := p.ledger.Get(ctx, topic)
		if err != nil {
			return nil, err
		}

		score := recordToScore(rec)
		if err := p.cache.Set(ctx, topic, score); err != nil {
			slog.Warn("Failed to cache ledger read", "topic", topic, "error", err)
		}
		return score, nil
	})
	if err != nil {
		return domain.Score{}, err
	}

	return v.(domain.Score), nil
}

// Topics lists every topic with a cached score.
func (p *Publisher) Topics(ctx context.Context) ([]string, error) {
	return p.cache.Topics(ctx)
}

func recordToScore(rec domain.Record) domain.Score {
	return domain.Score{
		VibeScore:  LedgerToDisplay(rec.VibeScore),
		Confidence: float64(rec.Confidence) / 10,
		SampleSize: int(rec.SampleSize),
		ComputedAt: time.Unix(rec.Timestamp, 0).UTC(),
	}
}
