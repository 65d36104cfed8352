package store

import (
	"context"
	"sync"

	"github.com/cryptopulse/cryptopulse/internal/domain"
)

// Memory is the in-process latest-score cache. Each Set replaces the whole
// entry under the lock, so readers never observe fields from two different
// publishes.
type Memory struct {
	mu     sync.RWMutex
	latest map[string]domain.Score
}

func NewMemory() *Memory {
	return &Memory{latest: make(map[string]domain.Score)}
}

func (m *Memory) Get(_ context.Context, topic string) (domain.Score, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.latest[topic]
	return score, ok, nil
}

func (m *Memory) Set(_ context.Context, topic string, score domain.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest[topic] = score
	return nil
}

func (m *Memory) Topics(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	topics := make([]string, 0, len(m.latest))
	for topic := range m.latest {
		topics = append(topics, topic)
	}
	return topics, nil
}
