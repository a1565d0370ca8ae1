// Package pipeline sequences document text extraction, verification, AI field
// extraction, and record assembly for a single resume file.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cvkit/resume-parser/internal/ai"
	"github.com/cvkit/resume-parser/internal/resume"
	"github.com/cvkit/resume-parser/internal/verify"

	"go.uber.org/zap"
)

// TextSource extracts raw text from a resume file on disk.
type TextSource interface {
	ExtractText(path string) (string, error)
}

// Pipeline coordinates one parse invocation. It holds no per-call state, so a
// single Pipeline is safe to reuse across invocations.
type Pipeline struct {
	source    TextSource
	verifier  *verify.Verifier
	extractor ai.Extractor
	logger    *zap.Logger
}

// New builds a Pipeline from its collaborators.
func New(source TextSource, verifier *verify.Verifier, extractor ai.Extractor, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		source:    source,
		verifier:  verifier,
		extractor: extractor,
		logger:    logger,
	}
}

// Parse extracts text from the file at path, verifies it, extracts the resume
// fields through the AI service, and assembles the final record. The first
// failure is terminal for the invocation.
func (p *Pipeline) Parse(ctx context.Context, path string) (*resume.Record, error) {
	text, err := p.source.ExtractText(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracted text from file",
		zap.String("file", path),
		zap.Int("text_length", len(text)),
	)

	if result := p.verifier.Verify(text); !result.Passed() {
		return nil, fmt.Errorf("%w: %s", verify.ErrFailed, strings.Join(result.Issues(), "; "))
	}

	fields, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	record, err := resume.Assemble(fields)
	if err != nil {
		return nil, err
	}

	p.logger.Info("resume parsed",
		zap.String("file", path),
		zap.Int("skills_count", len(record.Skills)),
	)

	return record, nil
}
