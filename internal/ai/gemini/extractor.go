package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/cvkit/resume-parser/internal/ai"
	"github.com/cvkit/resume-parser/internal/logger"

	"go.uber.org/zap"
)

//go:embed prompts/combined.md
var combinedPrompt string

//go:embed prompts/field.md
var fieldPromptTemplate string

const (
	defaultMaxLogLength = 200
	rawSnippetLength    = 300
)

// contentGenerator is what the extractor needs from the Gemini client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// fieldSpec parametrizes the per-field prompt template.
type fieldSpec struct {
	instruction string
	jsonShape   string
}

var fieldSpecs = map[string]fieldSpec{
	ai.FieldName: {
		instruction: "the candidate's full name",
		jsonShape:   `{"name": "..."}`,
	},
	ai.FieldEmail: {
		instruction: "the candidate's email address",
		jsonShape:   `{"email": "..."}`,
	},
	ai.FieldSkills: {
		instruction: "a list of the candidate's technical and professional skills",
		jsonShape:   `{"skills": ["...", "..."]}`,
	},
}

// FieldExtractor renders a prompt template around the resume text, sends it
// through the generator, and validates the JSON payload against its expected
// key set. The template and keys are data, so the same type serves both the
// combined and the per-field extraction modes.
type FieldExtractor struct {
	generator contentGenerator
	prompt    string
	keys      []string
	logger    *zap.Logger
	maxLogLen int
}

// NewCombinedExtractor returns an extractor retrieving name, email, and
// skills in a single call.
func NewCombinedExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *FieldExtractor {
	return newFieldExtractor(generator, combinedPrompt,
		[]string{ai.FieldName, ai.FieldEmail, ai.FieldSkills}, log, maxLogLength)
}

// NewFieldExtractor returns an extractor for a single resume field.
func NewFieldExtractor(generator contentGenerator, field string, log *zap.Logger, maxLogLength int) (*FieldExtractor, error) {
	spec, ok := fieldSpecs[field]
	if !ok {
		return nil, fmt.Errorf("unknown resume field: %q", field)
	}

	prompt := strings.ReplaceAll(fieldPromptTemplate, "{{FIELD_INSTRUCTION}}", spec.instruction)
	prompt = strings.ReplaceAll(prompt, "{{JSON_SHAPE}}", spec.jsonShape)

	return newFieldExtractor(generator, prompt, []string{field}, log, maxLogLength), nil
}

func newFieldExtractor(generator contentGenerator, prompt string, keys []string, log *zap.Logger, maxLogLength int) *FieldExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &FieldExtractor{
		generator: generator,
		prompt:    prompt,
		keys:      keys,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Extract sends the resume text to Gemini and returns the validated field
// values for this extractor's key set.
func (e *FieldExtractor) Extract(ctx context.Context, resumeText string) (ai.Fields, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ai.ErrEmptyInput
	}

	prompt := strings.ReplaceAll(e.prompt, "{{RESUME_TEXT}}", resumeText)

	e.logger.Debug("gemini extraction request",
		zap.Strings("fields", e.keys),
		zap.String("model", e.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extraction response",
		zap.Strings("fields", e.keys),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)",
			ai.ErrMalformedResponse, err, logger.TruncateForLog(cleaned, rawSnippetLength))
	}

	var missing []string
	for _, key := range e.keys {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s (got keys: %s)",
			ai.ErrIncompleteResponse, strings.Join(missing, ", "), strings.Join(keysOf(data), ", "))
	}

	fields := make(ai.Fields, len(e.keys))
	for _, key := range e.keys {
		fields[key] = data[key]
	}

	return fields, nil
}

// extractJSON strips optional code-fence markup around the payload. Gemini
// sometimes wraps JSON in a fenced block even when told not to.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	return strings.TrimSpace(raw)
}

func keysOf(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
