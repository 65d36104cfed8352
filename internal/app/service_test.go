package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
	"github.com/cryptopulse/cryptopulse/internal/oracle"
	"github.com/cryptopulse/cryptopulse/internal/scorer"
	"github.com/cryptopulse/cryptopulse/internal/store"
)

// --- Mocks ---

type mockScorer struct {
	mu      sync.Mutex
	name    string
	outcome domain.Outcome
	err     error
	batches [][]string
}

func (m *mockScorer) Name() string { return m.name }

func (m *mockScorer) Score(_ context.Context, posts []string) (domain.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]string, len(posts))
	copy(batch, posts)
	m.batches = append(m.batches, batch)
	return m.outcome, m.err
}

func (m *mockScorer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func newTestService(primary, fallback domain.Scorer) (*Service, *store.Memory) {
	cache := store.NewMemory()
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	publisher := oracle.NewPublisher(oracle.NewSimulated(clock), cache, clock, "0xupdater")
	return NewService(primary, fallback, publisher), cache
}

func TestAnalyzeCompletesWithPrimaryBackend(t *testing.T) {
	primary := &mockScorer{name: "classifier", outcome: domain.Outcome{VibeScore: 70, Confidence: 80, SampleSize: 5}}
	svc, cache := newTestService(primary, scorer.NewLexicon())

	result, err := svc.Analyze(context.Background(), "bitcoin", []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	assert.Equal(t, 70, result.VibeScore)
	assert.NotEmpty(t, result.TransactionID)
	assert.NotEmpty(t, result.Message)

	cached, ok, err := cache.Get(context.Background(), "bitcoin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 70, cached.VibeScore)
	assert.Equal(t, 5, cached.SampleSize)
}

func TestAnalyzeSynthesizesDemoBatch(t *testing.T) {
	primary := &mockScorer{name: "classifier", outcome: domain.Outcome{VibeScore: 50, SampleSize: 5}}
	svc, _ := newTestService(primary, nil)

	_, err := svc.Analyze(context.Background(), "Solana", nil)
	require.NoError(t, err)

	require.Equal(t, 1, primary.calls())
	require.Len(t, primary.batches[0], 5)
	for _, post := range primary.batches[0] {
		assert.Contains(t, post, "Solana")
	}
}

func TestAnalyzeEmptyInputIsValidationError(t *testing.T) {
	svc, _ := newTestService(&mockScorer{name: "classifier"}, nil)

	_, err := svc.Analyze(context.Background(), "", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
}

func TestAnalyzeFallsBackToLexiconOnBackendError(t *testing.T) {
	primary := &mockScorer{name: "classifier", err: apperrors.BackendError("hf down", nil)}
	svc, cache := newTestService(primary, scorer.NewLexicon())

	result, err := svc.Analyze(context.Background(), "bitcoin", []string{"bullish moon", "amazing gains"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.VibeScore, 50)

	cached, ok, err := cache.Get(context.Background(), "bitcoin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, cached.SampleSize)
}

func TestAnalyzeNoFallbackSurfacesBackendError(t *testing.T) {
	primary := &mockScorer{name: "classifier", err: apperrors.BackendError("hf down", nil)}
	svc, cache := newTestService(primary, nil)

	_, err := svc.Analyze(context.Background(), "bitcoin", []string{"text"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeBackend))

	_, ok, cerr := cache.Get(context.Background(), "bitcoin")
	require.NoError(t, cerr)
	assert.False(t, ok)
}

func TestAnalyzeNormalizationErrorIsNeverFallenBack(t *testing.T) {
	primary := &mockScorer{name: "classifier", err: apperrors.NormalizationError("empty label set", nil)}
	fallback := &mockScorer{name: "lexicon", outcome: domain.Outcome{VibeScore: 50}}
	svc, _ := newTestService(primary, fallback)

	_, err := svc.Analyze(context.Background(), "bitcoin", []string{"text"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeNormalization))
	assert.Zero(t, fallback.calls())
}

func TestAnalyzeEndToEndGenerativeStub(t *testing.T) {
	// "ETH looking amazing today" through a generative stub answering 82
	// publishes ledger value 640.
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	ledger := oracle.NewSimulated(clock)
	cache := store.NewMemory()
	publisher := oracle.NewPublisher(ledger, cache, clock, "0xupdater")

	primary := &mockScorer{name: "generative", outcome: domain.Outcome{VibeScore: 82, SampleSize: 1}}
	svc := NewService(primary, nil, publisher)

	result, err := svc.Analyze(context.Background(), "ethereum", []string{"ETH looking amazing today"})
	require.NoError(t, err)
	assert.Equal(t, 82, result.VibeScore)

	rec, err := ledger.Get(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, int64(640), rec.VibeScore)
}

func TestLatestUnknownTopic(t *testing.T) {
	svc, _ := newTestService(&mockScorer{name: "classifier"}, nil)

	_, err := svc.Latest(context.Background(), "never-analyzed")
	require.ErrorIs(t, err, domain.ErrTopicNotPublished)
}

func TestAllLatest(t *testing.T) {
	primary := &mockScorer{name: "classifier", outcome: domain.Outcome{VibeScore: 60, SampleSize: 5}}
	svc, _ := newTestService(primary, nil)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "bitcoin", []string{"a"})
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, "ethereum", []string{"b"})
	require.NoError(t, err)

	scores, err := svc.AllLatest(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 60, scores["bitcoin"].VibeScore)
	assert.Equal(t, 60, scores["ethereum"].VibeScore)
}
