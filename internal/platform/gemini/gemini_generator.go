package gemini

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/generation"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
	"google.golang.org/genai"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// contentGenerator is the part of the genai client the generator uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.Generator using the Gemini API.
type GeminiGenerator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	prompt     *template.Template
	maxRetries int
	baseDelay  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator from cfg. It fails with
// generation.ErrInvalidConfig when the key or model is missing.
func NewGeminiGenerator(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	redact.AddSecret(cfg.GeminiAPIKey)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(log, client.Models, cfg)
}

func newGenerator(log *slog.Logger, models contentGenerator, cfg config.LLMConfig) (*GeminiGenerator, error) {
	prompt, err := template.ParseFS(promptFS, "prompts/example.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := time.Duration(cfg.RetryDelaySeconds) * time.Second
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}

	return &GeminiGenerator{
		logger:     log.With(slog.String("component", "gemini_generator")),
		models:     models,
		model:      cfg.ModelName,
		prompt:     prompt,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// GenerateExample asks the model for one example sentence.
func (g *GeminiGenerator) GenerateExample(ctx context.Context, req generation.ExampleRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	log := logger.FromContextOrDefault(ctx, g.logger)

	prompt, err := g.renderPrompt(req)
	if err != nil {
		return "", err
	}
	log.DebugContext(ctx, "prompt rendered",
		slog.String("language", req.Language),
		slog.Int("prompt_length", len(prompt)))

	return g.callWithRetry(ctx, log, prompt)
}

func (g *GeminiGenerator) renderPrompt(req generation.ExampleRequest) (string, error) {
	var buf bytes.Buffer
	if err := g.prompt.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v", generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}

// callWithRetry calls the model up to maxRetries+1 times. Permanent errors
// return immediately.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, log *slog.Logger, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		log.InfoContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", g.maxRetries+1))

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err == nil {
			text, parseErr := extractText(resp)
			if parseErr != nil {
				log.WarnContext(ctx, "unusable Gemini response", slog.String("error", parseErr.Error()))
				return "", parseErr
			}
			return text, nil
		}

		log.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", redact.Error(err)))

		if !isTransient(err) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctxErr)
			}
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
		if attempt >= g.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		delay := g.backoff(attempt)
		log.InfoContext(ctx, "retrying after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	g.mu.Lock()
	jitter := 0.5 + g.rng.Float64()*0.5
	g.mu.Unlock()
	return time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt)) * jitter)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.Trim(strings.TrimSpace(sb.String()), `"“”„`)
	if text == "" {
		return "", fmt.Errorf("%w: no text", generation.ErrInvalidResponse)
	}
	return text, nil
}
