package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/cvkit/resume-parser/internal/ai"
	"github.com/cvkit/resume-parser/internal/document"
	"github.com/cvkit/resume-parser/internal/resume"
	"github.com/cvkit/resume-parser/internal/verify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	text string
	err  error
	path string
}

func (f *fakeSource) ExtractText(path string) (string, error) {
	f.path = path
	return f.text, f.err
}

type fakeExtractor struct {
	fields ai.Fields
	err    error
	text   string
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, text string) (ai.Fields, error) {
	f.calls++
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return f.fields, nil
}

func resumeText() string {
	return "Summary\nExperienced engineer.\nSkills: Go, SQL.\n" +
		strings.Repeat("Delivered projects on schedule. ", 10)
}

func TestPipelineParse(t *testing.T) {
	source := &fakeSource{text: resumeText()}
	extractor := &fakeExtractor{fields: ai.Fields{
		"name":   "Jane Doe",
		"email":  "jane@example.com",
		"skills": []any{"Go", "SQL"},
	}}

	pipe := New(source, verify.NewVerifier(zap.NewNop()), extractor, zap.NewNop())

	record, err := pipe.Parse(context.Background(), "resume.pdf")
	require.NoError(t, err)

	assert.Equal(t, "resume.pdf", source.path)
	assert.Equal(t, resumeText(), extractor.text)
	assert.Equal(t, "Jane Doe", record.Name)
	assert.Equal(t, []string{"Go", "SQL"}, record.Skills)
}

func TestPipelineStopsOnExtractionFailure(t *testing.T) {
	source := &fakeSource{err: document.ErrUnsupportedFormat}
	extractor := &fakeExtractor{}

	pipe := New(source, verify.NewVerifier(zap.NewNop()), extractor, zap.NewNop())

	_, err := pipe.Parse(context.Background(), "resume.xls")
	require.ErrorIs(t, err, document.ErrUnsupportedFormat)
	assert.Equal(t, 0, extractor.calls)
}

func TestPipelineStopsOnVerificationFailure(t *testing.T) {
	source := &fakeSource{text: "way too short"}
	extractor := &fakeExtractor{}

	pipe := New(source, verify.NewVerifier(zap.NewNop()), extractor, zap.NewNop())

	_, err := pipe.Parse(context.Background(), "resume.pdf")
	require.ErrorIs(t, err, verify.ErrFailed)
	assert.Contains(t, err.Error(), "too short")
	assert.Equal(t, 0, extractor.calls, "field extraction must not run on unverified text")
}

func TestPipelineVerificationReportsAllIssues(t *testing.T) {
	source := &fakeSource{text: "ab" + strings.Repeat("\x00", 50)}
	pipe := New(source, verify.NewVerifier(zap.NewNop()), &fakeExtractor{}, zap.NewNop())

	_, err := pipe.Parse(context.Background(), "resume.pdf")
	require.ErrorIs(t, err, verify.ErrFailed)
	assert.Contains(t, err.Error(), "too short")
	assert.Contains(t, err.Error(), "keywords")
	assert.Contains(t, err.Error(), "printable")
}

func TestPipelinePropagatesExtractorError(t *testing.T) {
	source := &fakeSource{text: resumeText()}
	extractor := &fakeExtractor{err: ai.ErrServiceUnavailable}

	pipe := New(source, verify.NewVerifier(zap.NewNop()), extractor, zap.NewNop())

	_, err := pipe.Parse(context.Background(), "resume.pdf")
	require.ErrorIs(t, err, ai.ErrServiceUnavailable)
}

func TestPipelineAssemblyFailure(t *testing.T) {
	source := &fakeSource{text: resumeText()}
	extractor := &fakeExtractor{fields: ai.Fields{"name": "Jane Doe"}}

	pipe := New(source, verify.NewVerifier(zap.NewNop()), extractor, zap.NewNop())

	_, err := pipe.Parse(context.Background(), "resume.pdf")
	require.ErrorIs(t, err, resume.ErrSchemaMismatch)
}
