package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

type pdfExtractor struct{}

// Parse extracts text from a PDF file using github.com/ledongthuc/pdf.
// Encrypted documents surface as ErrAccessDenied, everything else the
// library rejects as ErrCorruptFile.
func (e *pdfExtractor) Parse(path string) (text string, err error) {
	// The pdf library panics on some malformed cross-reference tables
	// instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf parser failure: %v", ErrCorruptFile, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", fmt.Errorf("%w: pdf is password-protected: %s", ErrAccessDenied, path)
		}
		return "", fmt.Errorf("%w: opening pdf: %v", ErrCorruptFile, err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf text: %v", ErrCorruptFile, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: reading pdf text: %v", ErrCorruptFile, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
