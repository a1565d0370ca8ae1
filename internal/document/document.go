// Package document selects a text extraction strategy by file extension and
// surfaces a small error taxonomy for everything that can go wrong before the
// extracted text reaches verification.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotFound reports that the given path does not exist or is not a regular file.
	ErrNotFound = errors.New("file not found")
	// ErrUnsupportedFormat reports a file extension with no registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrCorruptFile reports a file that matched a registered format but could not be read as one.
	ErrCorruptFile = errors.New("corrupt or unreadable file")
	// ErrAccessDenied reports encrypted or password-protected content.
	ErrAccessDenied = errors.New("access denied")
)

// Extractor pulls plain text out of a single document format.
type Extractor interface {
	Parse(path string) (string, error)
}

// Registry maps lower-cased file extensions to their extractors.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a registry with the built-in PDF and DOCX extractors.
func NewRegistry() *Registry {
	return newRegistry(map[string]Extractor{
		".pdf":  &pdfExtractor{},
		".docx": &docxExtractor{},
	})
}

func newRegistry(extractors map[string]Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Supported returns the registered extensions in sorted order.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	return exts
}

// ExtractText selects an extractor by the file extension and returns the
// extracted text. The existence check is defensive: the CLI validates the
// path too, but the registry must hold on direct library use.
func (r *Registry) ExtractText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := r.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported types: %s)",
			ErrUnsupportedFormat, ext, strings.Join(r.Supported(), ", "))
	}

	return extractor.Parse(path)
}
