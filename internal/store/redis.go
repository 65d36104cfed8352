package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cryptopulse/cryptopulse/internal/domain"
)

const topicsKey = "vibe:topics"

func latestKey(topic string) string {
	return fmt.Sprintf("vibe:latest:%s", topic)
}

// Redis stores the latest score per topic as a hash, replaced wholesale on
// every publish so a concurrent reader sees either the old or the new
// record, never a mix.
type Redis struct {
	rdb *goredis.Client
}

func NewRedis(rdb *goredis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// NewRedisClient connects and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (r *Redis) Get(ctx context.Context, topic string) (domain.Score, bool, error) {
	fields, err := r.rdb.HGetAll(ctx, latestKey(topic)).Result()
	if err != nil {
		return domain.Score{}, false, fmt.Errorf("failed to read latest score: %w", err)
	}
	if len(fields) == 0 {
		return domain.Score{}, false, nil
	}

	score, err := parseFields(fields)
	if err != nil {
		return domain.Score{}, false, err
	}
	return score, true, nil
}

func (r *Redis) Set(ctx context.Context, topic string, score domain.Score) error {
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, latestKey(topic), map[string]any{
		"vibe_score":  score.VibeScore,
		"confidence":  strconv.FormatFloat(score.Confidence, 'f', -1, 64),
		"sample_size": score.SampleSize,
		"computed_at": score.ComputedAt.Unix(),
	})
	pipe.SAdd(ctx, topicsKey, topic)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store latest score: %w", err)
	}
	return nil
}

func (r *Redis) Topics(ctx context.Context) ([]string, error) {
	topics, err := r.rdb.SMembers(ctx, topicsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

func parseFields(fields map[string]string) (domain.Score, error) {
	vibe, err := strconv.Atoi(fields["vibe_score"])
	if err != nil {
		return domain.Score{}, fmt.Errorf("invalid vibe_score %q: %w", fields["vibe_score"], err)
	}
	confidence, err := strconv.ParseFloat(fields["confidence"], 64)
	if err != nil {
		return domain.Score{}, fmt.Errorf("invalid confidence %q: %w", fields["confidence"], err)
	}
	sampleSize, err := strconv.Atoi(fields["sample_size"])
	if err != nil {
		return domain.Score{}, fmt.Errorf("invalid sample_size %q: %w", fields["sample_size"], err)
	}
	computedAt, err := strconv.ParseInt(fields["computed_at"], 10, 64)
	if err != nil {
		return domain.Score{}, fmt.Errorf("invalid computed_at %q: %w", fields["computed_at"], err)
	}

	return domain.Score{
		VibeScore:  vibe,
		Confidence: confidence,
		SampleSize: sampleSize,
		ComputedAt: time.Unix(computedAt, 0).UTC(),
	}, nil
}
