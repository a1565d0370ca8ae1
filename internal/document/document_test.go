package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) Parse(string) (string, error) {
	s.calls++
	return s.text, s.err
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o600))

	return path
}

func TestExtractTextRoutesByExtension(t *testing.T) {
	pdfStub := &stubExtractor{text: "pdf text"}
	docxStub := &stubExtractor{text: "docx text"}
	registry := newRegistry(map[string]Extractor{
		".pdf":  pdfStub,
		".docx": docxStub,
	})

	text, err := registry.ExtractText(writeTempFile(t, "resume.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf text", text)
	assert.Equal(t, 1, pdfStub.calls)
	assert.Equal(t, 0, docxStub.calls)

	text, err = registry.ExtractText(writeTempFile(t, "resume.docx"))
	require.NoError(t, err)
	assert.Equal(t, "docx text", text)
	assert.Equal(t, 1, docxStub.calls)
}

func TestExtractTextMatchesExtensionCaseInsensitively(t *testing.T) {
	stub := &stubExtractor{text: "pdf text"}
	registry := newRegistry(map[string]Extractor{".pdf": stub})

	_, err := registry.ExtractText(writeTempFile(t, "RESUME.PDF"))
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.ExtractText(writeTempFile(t, "resume.txt"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".docx, .pdf")
}

func TestExtractTextNotFound(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExtractTextRejectsDirectory(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.ExtractText(t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{".docx", ".pdf"}, NewRegistry().Supported())
}

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	extractor := &pdfExtractor{}

	_, err := extractor.Parse(writeTempFile(t, "broken.pdf"))
	require.ErrorIs(t, err, ErrCorruptFile)
}

func TestDocxExtractorRejectsGarbage(t *testing.T) {
	extractor := &docxExtractor{}

	_, err := extractor.Parse(writeTempFile(t, "broken.docx"))
	require.ErrorIs(t, err, ErrCorruptFile)
}
