package scorer

import (
	"math"
	"strings"

	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
)

// LabelScore is one (label, probability) pair from the classifier backend.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Per-text point values on the canonical scale. The three-point mapping is
// deliberately insensitive to probability magnitude beyond the argmax.
const (
	pointNegative = 0
	pointNeutral  = 50
	pointPositive = 100
)

// labelPoints maps a classifier label to its point value. Both the numeric
// alias convention (LABEL_0/1/2) and named labels are accepted, matched
// case-insensitively. Unknown labels are an error, never a silent neutral.
func labelPoints(label string) (int, error) {
	lower := strings.ToLower(label)
	switch {
	case lower == "label_2" || strings.Contains(lower, "positive"):
		return pointPositive, nil
	case lower == "label_1" || strings.Contains(lower, "neutral"):
		return pointNeutral, nil
	case lower == "label_0" || strings.Contains(lower, "negative"):
		return pointNegative, nil
	default:
		return 0, apperrors.NormalizationError("unknown sentiment label", nil).WithField("label", label)
	}
}

// dominant returns the highest-probability pair, breaking ties in favor of
// the first maximum encountered.
func dominant(pairs []LabelScore) LabelScore {
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best
}

// AggregateClassifier converts per-text label distributions into a single
// topic-level vibe score plus a confidence percentage. The score is the
// arithmetic mean of per-text point values; the confidence is the mean
// winning-label probability, as a percentage rounded to two decimals.
func AggregateClassifier(results [][]LabelScore) (int, float64, error) {
	if len(results) == 0 {
		return 0, 0, apperrors.NormalizationError("classifier returned no results", nil)
	}

	totalPoints := 0
	totalConfidence := 0.0

	for i, pairs := range results {
		if len(pairs) == 0 {
			return 0, 0, apperrors.NormalizationError("empty label set for text", nil).WithField("index", i)
		}

		best := dominant(pairs)
		points, err := labelPoints(best.Label)
		if err != nil {
			return 0, 0, err
		}

		totalPoints += points
		totalConfidence += best.Score
	}

	n := float64(len(results))
	score := int(math.Round(float64(totalPoints) / n))
	confidence := math.Round(totalConfidence/n*100*100) / 100

	return score, confidence, nil
}

// LexiconVibe maps a summed signed lexicon score onto the canonical scale.
// The affine constants are fixed: a sum of 0 lands on neutral 50.
func LexiconVibe(sum int) int {
	vibe := int(math.Round((float64(sum) + 50) / 100 * 100))
	return ClampScore(vibe)
}

// ClampScore bounds a score into the canonical 0-100 range.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
