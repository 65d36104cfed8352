package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/cryptopulse/cryptopulse/internal/domain"
)

// simTxPrefix marks transaction ids produced by the simulated ledger so
// they can never be confused with a real chain hash.
const simTxPrefix = "0xsim-"

// IsSimulatedTx reports whether a transaction id came from the simulated ledger.
func IsSimulatedTx(txID string) bool {
	return strings.HasPrefix(txID, simTxPrefix)
}

// Simulated is the in-memory ledger used outside production. Writes always
// succeed and return a sentinel transaction id.
type Simulated struct {
	mu      sync.Mutex
	records map[string]domain.Record
	clock   clockwork.Clock
}

func NewSimulated(clock clockwork.Clock) *Simulated {
	return &Simulated{
		records: make(map[string]domain.Record),
		clock:   clock,
	}
}

func (s *Simulated) Update(_ context.Context, topic string, rec domain.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Topic = topic
	if rec.Timestamp == 0 {
		rec.Timestamp = s.clock.Now().Unix()
	}
	s.records[topic] = rec

	return simTxPrefix + uuid.NewString(), nil
}

func (s *Simulated) Get(_ context.Context, topic string) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[topic]
	if !ok {
		return domain.Record{}, domain.ErrTopicNotPublished
	}
	return rec, nil
}

// HTTPRelay commits records through a signing relay that holds the wallet
// and broadcasts the actual transaction. Unlike the simulated ledger its
// writes are genuinely fallible.
type HTTPRelay struct {
	httpClient *http.Client
	url        string
}

func NewHTTPRelay(url string, timeout time.Duration) *HTTPRelay {
	return &HTTPRelay{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimSuffix(url, "/"),
	}
}

type relayRecord struct {
	Topic      string `json:"topic"`
	VibeScore  int64  `json:"vibeScore"`
	Confidence int64  `json:"confidence"`
	SampleSize int64  `json:"sampleSize"`
	Timestamp  int64  `json:"timestamp"`
	Updater    string `json:"updater"`
}

func (r *HTTPRelay) Update(ctx context.Context, topic string, rec domain.Record) (string, error) {
	payload, err := json.Marshal(relayRecord{
		Topic:      topic,
		VibeScore:  rec.VibeScore,
		Confidence: rec.Confidence,
		SampleSize: rec.SampleSize,
		Timestamp:  rec.Timestamp,
		Updater:    rec.Updater,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/update", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read relay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay rejected write with status %d: %s", resp.StatusCode, body)
	}

	var result struct {
		TxHash string `json:"txHash"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("invalid relay response: %w", err)
	}
	if result.TxHash == "" {
		return "", fmt.Errorf("relay returned no transaction hash")
	}

	return result.TxHash, nil
}

func (r *HTTPRelay) Get(ctx context.Context, topic string) (domain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url+"/sentiment/"+topic, nil)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.Record{}, fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Record{}, domain.ErrTopicNotPublished
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Record{}, fmt.Errorf("relay read failed with status %d", resp.StatusCode)
	}

	var rec relayRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.Record{}, fmt.Errorf("invalid relay response: %w", err)
	}

	return domain.Record{
		Topic:      rec.Topic,
		VibeScore:  rec.VibeScore,
		Confidence: rec.Confidence,
		SampleSize: rec.SampleSize,
		Timestamp:  rec.Timestamp,
		Updater:    rec.Updater,
	}, nil
}
