package scorer

import (
	"context"
	"strings"
	"unicode"

	"github.com/cryptopulse/cryptopulse/internal/domain"
)

// valences is an AFINN-style word list extended with the crypto slang that
// dominates the post corpus. Values are signed integers in [-5, 5].
var valences = map[string]int{
	// general positive
	"amazing": 4, "awesome": 4, "best": 3, "better": 2, "bright": 1,
	"confident": 2, "excellent": 3, "excited": 3, "fantastic": 4,
	"gain": 2, "gains": 2, "good": 3, "great": 3, "growth": 2,
	"happy": 3, "hope": 2, "huge": 1, "impressive": 3, "incredible": 4,
	"love": 3, "opportunity": 2, "optimistic": 2, "profit": 2,
	"promising": 2, "rally": 2, "recover": 2, "recovery": 2,
	"solid": 2, "strong": 2, "success": 2, "upgrade": 2, "win": 4,
	"winning": 4, "wonderful": 4,

	// general negative
	"afraid": -2, "avoid": -1, "awful": -3, "bad": -3, "bankrupt": -3,
	"collapse": -2, "crisis": -3, "danger": -2, "dead": -3,
	"disaster": -2, "doubt": -1, "drop": -1, "fail": -2, "failure": -2,
	"fear": -2, "fraud": -4, "hate": -3, "horrible": -3, "lose": -3,
	"loss": -3, "losses": -3, "panic": -3, "poor": -2, "risk": -2,
	"risky": -2, "scam": -4, "scared": -2, "terrible": -3, "ugly": -3,
	"warning": -3, "weak": -2, "worried": -3, "worst": -3, "worthless": -2,

	// crypto slang
	"ath": 3, "bearish": -3, "bleeding": -2, "breakout": 2, "bull": 2,
	"bullish": 3, "buy": 1, "crash": -2, "dip": -1, "dump": -3,
	"dumping": -3, "fomo": 1, "fud": -2, "hodl": 2, "moon": 3,
	"mooning": 3, "overhyped": -2, "pump": 2, "rekt": -4, "rug": -4,
	"rugpull": -4, "sell": -1, "selloff": -2, "surge": 2, "tank": -2,
	"tanking": -2, "whale": 1, "whales": 1,
}

// ScoreText computes the signed lexicon score for a single text. It is a
// pure function: deterministic, no I/O, and 0 for neutral or empty input.
func ScoreText(text string) int {
	score := 0
	for _, token := range tokenize(text) {
		score += valences[token]
	}
	return score
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Lexicon is the zero-dependency scoring backend. It never fails, which
// makes it the terminal fallback when remote backends are unavailable.
type Lexicon struct{}

func NewLexicon() *Lexicon {
	return &Lexicon{}
}

func (l *Lexicon) Name() string {
	return "lexicon"
}

// Score sums the signed per-post scores and maps the total onto the
// canonical scale. Confidence is always 0: the lexicon has no probability
// model to derive one from.
func (l *Lexicon) Score(_ context.Context, posts []string) (domain.Outcome, error) {
	sum := 0
	for _, post := range posts {
		sum += ScoreText(post)
	}

	return domain.Outcome{
		VibeScore:  LexiconVibe(sum),
		Confidence: 0,
		SampleSize: len(posts),
	}, nil
}
