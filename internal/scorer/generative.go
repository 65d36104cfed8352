package scorer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/cryptopulse/cryptopulse/internal/domain"
	apperrors "github.com/cryptopulse/cryptopulse/internal/errors"
)

// textGenerator is the seam between the scorer and the Gemini SDK so the
// parsing path can be tested without network access.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGeminiGenerator(ctx context.Context, apiKey, modelName string) (*geminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: genai.Ptr[int32](10),
	}

	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type from gemini")
	}

	return string(text), nil
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

// Generative estimates one whole-batch vibe score by asking a generative
// backend for a single integer on the canonical scale.
type Generative struct {
	generator textGenerator
}

func NewGenerative(ctx context.Context, apiKey, modelName string) (*Generative, error) {
	gen, err := newGeminiGenerator(ctx, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	return &Generative{generator: gen}, nil
}

func (g *Generative) Name() string {
	return "generative"
}

func (g *Generative) Close() error {
	return g.generator.Close()
}

// Score builds one prompt over the enumerated batch and parses a single
// integer out of the reply. The reply is clamped into [0,100]: the backend
// already answers on the canonical scale, so clamping is the only
// normalization this backend needs.
func (g *Generative) Score(ctx context.Context, posts []string) (domain.Outcome, error) {
	reply, err := g.generator.Generate(ctx, buildPrompt(posts))
	if err != nil {
		return domain.Outcome{}, apperrors.BackendError("generative request failed", err)
	}

	score, err := parseVibeReply(reply)
	if err != nil {
		return domain.Outcome{}, err
	}

	return domain.Outcome{
		VibeScore:  ClampScore(score),
		Confidence: 0,
		SampleSize: len(posts),
	}, nil
}

func buildPrompt(posts []string) string {
	var b strings.Builder
	b.WriteString("You are a crypto sentiment oracle.\n")
	b.WriteString("Given these social media posts, output ONLY a single integer between 0 and 100.\n\n")
	b.WriteString("0 = extremely bearish sentiment\n")
	b.WriteString("50 = neutral\n")
	b.WriteString("100 = extremely bullish sentiment\n\n")
	b.WriteString("Posts:\n")
	for i, post := range posts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, post)
	}
	b.WriteString("\nReturn ONLY the number, nothing else.\n")
	return b.String()
}

// parseVibeReply extracts the leading integer from a free-form reply,
// tolerating whitespace and markdown code fences around the number.
func parseVibeReply(reply string) (int, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	end := 0
	if end < len(cleaned) && cleaned[end] == '-' {
		end++
	}
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
	}

	score, err := strconv.Atoi(cleaned[:end])
	if err != nil {
		return 0, apperrors.BackendError("non-numeric response", err).WithField("reply", truncate(reply, 100))
	}
	return score, nil
}
