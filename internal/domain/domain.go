package domain

import (
	"context"
	"time"
)

// --- Model types ---

// Score is the canonical per-topic sentiment record. VibeScore is always
// on the 0-100 display scale, Confidence is a percentage (0-100), and
// SampleSize is the number of posts that were actually scored. SampleSize
// is zero only for the neutral default served for never-analyzed topics.
type Score struct {
	VibeScore  int       `json:"vibeScore"`
	Confidence float64   `json:"confidence"`
	SampleSize int       `json:"sampleSize"`
	ComputedAt time.Time `json:"computedAt"`
}

// NeutralScore is the sanctioned default for topics that have never been
// analyzed. It is only ever used on the read path, never as a substitute
// for a failed scoring run.
func NeutralScore() Score {
	return Score{VibeScore: 50, Confidence: 0, SampleSize: 0}
}

// Record is the ledger-resident projection of a Score: the raw tuple the
// oracle contract stores per topic. VibeScore is on the signed -1000..1000
// contract scale and Confidence is stored at x10 of its display percentage.
type Record struct {
	Topic      string
	VibeScore  int64
	Confidence int64
	SampleSize int64
	Timestamp  int64
	Updater    string
}

// Outcome is a normalized backend result before publication.
type Outcome struct {
	VibeScore  int
	Confidence float64
	SampleSize int
}

// AnalysisResult is returned to the caller after a completed analysis.
type AnalysisResult struct {
	VibeScore     int    `json:"vibeScore"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

// --- Interfaces ---

// Scorer is a pluggable sentiment backend. Score takes a non-empty post
// batch and returns a normalized outcome on the canonical 0-100 scale.
type Scorer interface {
	Name() string
	Score(ctx context.Context, posts []string) (Outcome, error)
}

// LatestStore holds the last successfully published Score per topic.
// Set must replace the entry atomically so concurrent publishers for the
// same topic never produce a torn read.
type LatestStore interface {
	Get(ctx context.Context, topic string) (Score, bool, error)
	Set(ctx context.Context, topic string, score Score) error
	Topics(ctx context.Context) ([]string, error)
}

// Ledger is the external oracle contract handle. Update replaces the
// current record for a topic and returns a transaction identifier. Get
// returns ErrTopicNotPublished for topics that have never been written.
type Ledger interface {
	Update(ctx context.Context, topic string, rec Record) (string, error)
	Get(ctx context.Context, topic string) (Record, error)
}

// OracleService is the application layer contract. Handlers route all
// operations through here.
type OracleService interface {
	Analyze(ctx context.Context, topic string, posts []string) (AnalysisResult, error)
	Latest(ctx context.Context, topic string) (Score, error)
	AllLatest(ctx context.Context) (map[string]Score, error)
}
