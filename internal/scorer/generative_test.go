package scorer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeGenerator) Close() error { return nil }

func newFakeGenerative(reply string, err error) (*Generative, *fakeGenerator) {
	gen := &fakeGenerator{reply: reply, err: err}
	return &Generative{generator: gen}, gen
}

func TestGenerativeScoreParsesInteger(t *testing.T) {
	backend, gen := newFakeGenerative("82", nil)

	outcome, err := backend.Score(context.Background(), []string{"ETH looking amazing today"})
	require.NoError(t, err)
	assert.Equal(t, 82, outcome.VibeScore)
	assert.Equal(t, 1, outcome.SampleSize)
	assert.Zero(t, outcome.Confidence)

	assert.Contains(t, gen.prompt, "1. ETH looking amazing today")
	assert.Contains(t, gen.prompt, "0 = extremely bearish")
	assert.Contains(t, gen.prompt, "100 = extremely bullish")
}

func TestGenerativeScoreEnumeratesAllPosts(t *testing.T) {
	backend, gen := newFakeGenerative("50", nil)

	posts := []string{"first post", "second post", "third post"}
	_, err := backend.Score(context.Background(), posts)
	require.NoError(t, err)

	for i, post := range posts {
		assert.Contains(t, gen.prompt, fmt.Sprintf("%d. %s", i+1, post))
	}
}

func TestGenerativeScoreClampsOutOfRange(t *testing.T) {
	tests := []struct {
		reply string
		want  int
	}{
		{"150", 100},
		{"-20", 0},
		{"100", 100},
		{"0", 0},
	}

	for _, tt := range tests {
		backend, _ := newFakeGenerative(tt.reply, nil)
		outcome, err := backend.Score(context.Background(), []string{"text"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, outcome.VibeScore, "reply=%q", tt.reply)
	}
}

func TestGenerativeScoreTolerantParsing(t *testing.T) {
	tests := []struct {
		reply string
		want  int
	}{
		{"  82\n", 82},
		{"```\n64\n```", 64},
		{"73 out of 100", 73},
	}

	for _, tt := range tests {
		backend, _ := newFakeGenerative(tt.reply, nil)
		outcome, err := backend.Score(context.Background(), []string{"text"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, outcome.VibeScore, "reply=%q", tt.reply)
	}
}

func TestGenerativeScoreNonNumericReply(t *testing.T) {
	backend, _ := newFakeGenerative("the sentiment is quite bullish", nil)

	_, err := backend.Score(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeBackend))
	assert.Contains(t, err.Error(), "non-numeric response")
}

func TestGenerativeScoreTransportError(t *testing.T) {
	backend, _ := newFakeGenerative("", errors.New("deadline exceeded"))

	_, err := backend.Score(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeBackend))
}
