package oracle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
	"github.com/cryptopulse/cryptopulse/internal/store"
)

// --- Mocks ---

type failingLedger struct {
	err error
}

func (f *failingLedger) Update(context.Context, string, domain.Record) (string, error) {
	return "", f.err
}

func (f *failingLedger) Get(context.Context, string) (domain.Record, error) {
	return domain.Record{}, f.err
}

type countingLedger struct {
	mu      sync.Mutex
	inner   *Simulated
	getCnt  int
	blockCh chan struct{}
}

func (c *countingLedger) Update(ctx context.Context, topic string, rec domain.Record) (string, error) {
	return c.inner.Update(ctx, topic, rec)
}

func (c *countingLedger) Get(ctx context.Context, topic string) (domain.Record, error) {
	c.mu.Lock()
	c.getCnt++
	c.mu.Unlock()
	if c.blockCh != nil {
		<-c.blockCh
	}
	return c.inner.Get(ctx, topic)
}

func (c *countingLedger) gets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCnt
}

func newTestPublisher(ledger domain.Ledger) (*Publisher, *store.Memory, *clockwork.FakeClock) {
	cache := store.NewMemory()
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	return NewPublisher(ledger, cache, clock, "0xupdater"), cache, clock
}

func TestPublishWritesLedgerAndCache(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	ledger := NewSimulated(clock)
	pub, cache, _ := newTestPublisher(ledger)
	ctx := context.Background()

	out := domain.Outcome{VibeScore: 82, Confidence: 91.4, SampleSize: 1}
	score, txID, err := pub.Publish(ctx, "ethereum", out)
	require.NoError(t, err)

	assert.Equal(t, 82, score.VibeScore)
	assert.True(t, IsSimulatedTx(txID))

	rec, err := ledger.Get(ctx, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, int64(640), rec.VibeScore)
	assert.Equal(t, int64(914), rec.Confidence)
	assert.Equal(t, int64(1), rec.SampleSize)
	assert.Equal(t, "0xupdater", rec.Updater)

	cached, ok, err := cache.Get(ctx, "ethereum")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, score, cached)
}

func TestPublishClampsOutOfRangeScore(t *testing.T) {
	pub, _, _ := newTestPublisher(NewSimulated(clockwork.NewFakeClock()))

	score, _, err := pub.Publish(context.Background(), "btc", domain.Outcome{VibeScore: 140, SampleSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 100, score.VibeScore)
}

func TestPublishIsIdempotent(t *testing.T) {
	pub, cache, _ := newTestPublisher(NewSimulated(clockwork.NewFakeClock()))
	ctx := context.Background()

	out := domain.Outcome{VibeScore: 70, Confidence: 80, SampleSize: 5}

	first, tx1, err := pub.Publish(ctx, "bitcoin", out)
	require.NoError(t, err)
	second, tx2, err := pub.Publish(ctx, "bitcoin", out)
	require.NoError(t, err)

	// Both calls perform a write and each gets its own transaction id.
	assert.NotEqual(t, tx1, tx2)
	assert.Equal(t, first.VibeScore, second.VibeScore)

	cached, ok, err := cache.Get(ctx, "bitcoin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, cached)
}

func TestFailedPublishLeavesCacheUntouched(t *testing.T) {
	ledger := &failingLedger{err: errors.New("chain congestion")}
	pub, cache, _ := newTestPublisher(ledger)
	ctx := context.Background()

	// Never-published topic stays absent.
	_, _, err := pub.Publish(ctx, "doge", domain.Outcome{VibeScore: 60, SampleSize: 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypePublish))

	_, ok, err := cache.Get(ctx, "doge")
	require.NoError(t, err)
	assert.False(t, ok)

	// Previously published value survives a later failure unchanged.
	prev := domain.Score{VibeScore: 40, Confidence: 55, SampleSize: 4}
	require.NoError(t, cache.Set(ctx, "doge", prev))

	_, _, err = pub.Publish(ctx, "doge", domain.Outcome{VibeScore: 90, SampleSize: 9})
	require.Error(t, err)

	cached, ok, err := cache.Get(ctx, "doge")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, prev, cached)
}

func TestLatestPrefersCache(t *testing.T) {
	ledger := &countingLedger{inner: NewSimulated(clockwork.NewFakeClock())}
	pub, cache, _ := newTestPublisher(ledger)
	ctx := context.Background()

	want := domain.Score{VibeScore: 64, Confidence: 70, SampleSize: 5}
	require.NoError(t, cache.Set(ctx, "sol", want))

	got, err := pub.Latest(ctx, "sol")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Zero(t, ledger.gets())
}

func TestLatestFallsBackToLedger(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	sim := NewSimulated(clock)
	ledger := &countingLedger{inner: sim}
	pub, cache, _ := newTestPublisher(ledger)
	ctx := context.Background()

	_, err := sim.Update(ctx, "ada", domain.Record{
		VibeScore:  640,
		Confidence: 914,
		SampleSize: 5,
		Timestamp:  1700000000,
	})
	require.NoError(t, err)

	got, err := pub.Latest(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 82, got.VibeScore)
	assert.InDelta(t, 91.4, got.Confidence, 0.001)
	assert.Equal(t, 5, got.SampleSize)
	assert.Equal(t, 1, ledger.gets())

	// The ledger read is cached for the next call.
	_, ok, err := cache.Get(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = pub.Latest(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.gets())
}

func TestLatestUnpublishedTopic(t *testing.T) {
	ledger := &countingLedger{inner: NewSimulated(clockwork.NewFakeClock())}
	pub, _, _ := newTestPublisher(ledger)

	_, err := pub.Latest(context.Background(), "unknown")
	require.ErrorIs(t, err, domain.ErrTopicNotPublished)
}

func TestSimulatedLedgerOverwrites(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := NewSimulated(clock)
	ctx := context.Background()

	_, err := sim.Update(ctx, "btc", domain.Record{VibeScore: 100, Timestamp: 1})
	require.NoError(t, err)
	_, err = sim.Update(ctx, "btc", domain.Record{VibeScore: -200, Timestamp: 2})
	require.NoError(t, err)

	rec, err := sim.Get(ctx, "btc")
	require.NoError(t, err)
	assert.Equal(t, int64(-200), rec.VibeScore)
	assert.Equal(t, int64(2), rec.Timestamp)
}
