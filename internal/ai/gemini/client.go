package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cvkit/resume-parser/internal/ai"
	"github.com/cvkit/resume-parser/internal/utils"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel        = "gemini-flash-latest"
	defaultMaxRetries   = 5
	defaultInitialDelay = 5 * time.Second
)

// wait is swapped in tests to make backoff observable without sleeping.
var wait = utils.WaitFor

// modelCaller is the slice of the genai client the generator needs.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client with a retry/backoff policy:
// rate-limit and server-side failures back off exponentially up to the retry
// budget, network failures and other client-side errors fail immediately.
type Generator struct {
	models       modelCaller
	model        string
	maxRetries   int
	initialDelay time.Duration
	logger       *zap.Logger
}

// GeneratorConfig configures a Generator. Zero values fall back to defaults.
type GeneratorConfig struct {
	APIKey       string
	Model        string
	MaxRetries   int
	InitialDelay time.Duration
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg GeneratorConfig, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create genai client: %v", ai.ErrNetwork, err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	initialDelay := cfg.InitialDelay
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:       client.Models,
		model:        model,
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		logger:       logger,
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the first textual
// response. Retryable failures are re-attempted with exponential backoff;
// there is no delay before the first attempt.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ai.ErrEmptyInput
	}

	delay := g.initialDelay
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("retrying gemini request",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", g.maxRetries+1),
				zap.Duration("backoff", delay),
				zap.Error(lastErr),
			)
			if err := wait(ctx, delay); err != nil {
				return "", err
			}
			delay *= 2
		}

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			var apiErr genai.APIError
			switch {
			case errors.As(err, &apiErr) && retryable(apiErr):
				lastErr = err
				continue
			case errors.As(err, &apiErr):
				return "", fmt.Errorf("%w (code %d): %v", ai.ErrService, apiErr.Code, err)
			case ctx.Err() != nil:
				return "", ctx.Err()
			default:
				return "", fmt.Errorf("%w: %v", ai.ErrNetwork, err)
			}
		}

		output := flattenResponse(resp)
		if output == "" {
			return "", fmt.Errorf("%w: model %s", ai.ErrEmptyResponse, g.model)
		}

		return output, nil
	}

	return "", fmt.Errorf("%w: gave up after %d attempts: %v",
		ai.ErrServiceUnavailable, g.maxRetries+1, lastErr)
}

// Model returns the configured model identifier.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// retryable reports whether the API error is a rate limit or a transient
// server-side failure.
func retryable(err genai.APIError) bool {
	return err.Code == http.StatusTooManyRequests || err.Code >= http.StatusInternalServerError
}

func flattenResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
