package drafting

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"plaintdraft-backend/draft"
	"plaintdraft-backend/models"
)

const (
	DefaultGeminiModel = "gemini-1.5-pro"
	maxRetries         = 3
	initialBackoff     = time.Second
	maxPromptChars     = 30000
)

const systemInstruction = "You are an experienced Indian civil litigation advocate. " +
	"Revise the plaint below into formal pleading language. Keep every section heading, " +
	"every number, every date and every name exactly as given. Do not add facts. " +
	"Return plain text only, one paragraph per line."

// ContentGenerator is the part of *genai.GenerativeModel the generator uses
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator asks a Gemini model to polish the template draft
type GeminiGenerator struct {
	model    ContentGenerator
	composer *draft.Composer
	logger   *zap.Logger
	backoff  time.Duration
	retries  int
}

// GeminiOption is a functional option for GeminiGenerator
type GeminiOption func(*GeminiGenerator)

// GeminiWithLogger sets the logger
func GeminiWithLogger(logger *zap.Logger) GeminiOption {
	return func(g *GeminiGenerator) {
		g.logger = logger
	}
}

// GeminiWithBackoff sets the delay before the first retry. It doubles after each attempt.
func GeminiWithBackoff(d time.Duration) GeminiOption {
	return func(g *GeminiGenerator) {
		g.backoff = d
	}
}

// GeminiWithComposer sets the composer that produces the base draft
func GeminiWithComposer(c *draft.Composer) GeminiOption {
	return func(g *GeminiGenerator) {
		g.composer = c
	}
}

// NewGeminiGenerator wraps model. Pass client.GenerativeModel(name) in production.
func NewGeminiGenerator(model ContentGenerator, opts ...GeminiOption) *GeminiGenerator {
	g := &GeminiGenerator{
		model:   model,
		logger:  zap.NewNop(),
		backoff: initialBackoff,
		retries: maxRetries,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.composer == nil {
		g.composer = draft.NewComposer()
	}
	return g
}

// NewGeminiModel configures a generative model for plaint drafting
func NewGeminiModel(client *genai.Client, name string) *genai.GenerativeModel {
	if name == "" {
		name = DefaultGeminiModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	return model
}

// GenerateDraft implements Generator
func (g *GeminiGenerator) GenerateDraft(ctx context.Context, rec models.CaseRecord, retrieved []models.LegalProvision) (string, error) {
	prompt := g.prompt(rec, retrieved)
	if len(prompt) > maxPromptChars {
		g.logger.Warn("Prompt too long, truncating",
			zap.Int("chars", len(prompt)),
			zap.Int("limit", maxPromptChars))
		prompt = truncateUTF8(prompt, maxPromptChars)
	}

	var lastErr error
	backoff := g.backoff
	for attempt := 0; attempt < g.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		g.logger.Warn("Gemini generation attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, g.retries, lastErr)
}

func (g *GeminiGenerator) prompt(rec models.CaseRecord, retrieved []models.LegalProvision) string {
	var b strings.Builder
	b.WriteString("DRAFT PLAINT:\n")
	b.WriteString(g.composer.Compose(rec).Body)
	if len(retrieved) > 0 {
		b.WriteString("\nRELEVANT PROVISIONS (cite where applicable):\n")
		for _, p := range retrieved {
			fmt.Fprintf(&b, "- %s: %s\n", p.Citation(), strings.TrimSpace(p.Text))
		}
	}
	return b.String()
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("prompt blocked: %v", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var out strings.Builder
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonUnspecified && cand.FinishReason != genai.FinishReasonStop {
			g.logger.Warn("Candidate finished early",
				zap.Int("candidate", i),
				zap.Any("reason", cand.FinishReason))
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out.WriteString(string(t))
			}
		}
		// first candidate with text wins
		if out.Len() > 0 {
			break
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("candidates contained no text")
	}
	return text + "\n", nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
