package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
	"github.com/cryptopulse/cryptopulse/internal/metrics"
	"github.com/cryptopulse/cryptopulse/internal/platform/retry"
)

// statusError carries the HTTP status of a failed classifier call so the
// retry classifier can distinguish auth failures from transient faults.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("classifier returned status %d: %s", e.status, e.body)
}

// ClassifierClient calls a hosted text-classification endpoint with the
// whole post batch in one request and returns one label distribution per
// post. Calls go through a circuit breaker and a bounded retry loop.
type ClassifierClient struct {
	httpClient *http.Client
	url        string
	token      string
	breaker    *gobreaker.CircuitBreaker
	policy     retry.Policy
}

func NewClassifierClient(url, token string, timeout time.Duration) *ClassifierClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "classifier",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(_ string, _, to gobreaker.State) {
			metrics.ClassifierBreakerState.Set(breakerStateValue(to))
		},
	})

	return &ClassifierClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		token:      token,
		breaker:    breaker,
		policy: retry.Policy{
			MaxAttempts:      3,
			InitialBackoff:   500 * time.Millisecond,
			RateLimitBackoff: 5 * time.Second,
		},
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// classifyAttempts decides how the retry loop treats a failed call.
func classifyAttempts(err error) retry.Action {
	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.status == http.StatusUnauthorized || se.status == http.StatusForbidden:
			return retry.Stop
		case se.status == http.StatusTooManyRequests:
			return retry.After
		case se.status >= 500:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return retry.Stop
	}
	return retry.Retry
}

// Classify sends the batch and returns one label set per input post, in
// input order. The batch itself is never mutated. Any transport failure,
// auth failure, or shape mismatch surfaces as a backend error.
func (c *ClassifierClient) Classify(ctx context.Context, posts []string) ([][]LabelScore, error) {
	results, err := retry.Do(ctx, c.policy, classifyAttempts, func() ([][]LabelScore, error) {
		out, err := c.breaker.Execute(func() (any, error) {
			return c.doRequest(ctx, posts)
		})
		if err != nil {
			return nil, err
		}
		return out.([][]LabelScore), nil
	})
	if err != nil {
		return nil, apperrors.BackendError("classifier request failed", err)
	}
	return results, nil
}

func (c *ClassifierClient) doRequest(ctx context.Context, posts []string) ([][]LabelScore, error) {
	payload, err := json.Marshal(map[string]any{"inputs": posts})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, body: truncate(string(body), 200)}
	}

	var results [][]LabelScore
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("response is not a classification array: %w", err)
	}

	if len(results) != len(posts) {
		return nil, fmt.Errorf("expected %d results, got %d", len(posts), len(results))
	}

	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Classifier is the scoring backend built on the classifier client plus
// the argmax aggregation.
type Classifier struct {
	client *ClassifierClient
}

func NewClassifier(client *ClassifierClient) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) Name() string {
	return "classifier"
}

func (c *Classifier) Score(ctx context.Context, posts []string) (domain.Outcome, error) {
	results, err := c.client.Classify(ctx, posts)
	if err != nil {
		return domain.Outcome{}, err
	}

	score, confidence, err := AggregateClassifier(results)
	if err != nil {
		return domain.Outcome{}, err
	}

	return domain.Outcome{
		VibeScore:  score,
		Confidence: confidence,
		SampleSize: len(posts),
	}, nil
}
