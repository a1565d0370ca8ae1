package document

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// textRunPattern matches the content of WordprocessingML text runs. It is the
// last-resort path for documents whose markup the XML walk yields nothing for.
var textRunPattern = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

type docxExtractor struct{}

// Parse extracts text from a .docx file using github.com/nguyenthenguyen/docx
// to reach the word/document.xml payload. Paragraph and table-cell text is
// flattened via an XML token walk; when that produces nothing, text runs are
// scraped with a tag-content pattern instead.
func (e *docxExtractor) Parse(path string) (string, error) {
	reader, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening docx: %v", ErrCorruptFile, err)
	}
	defer reader.Close()

	content := reader.Editable().GetContent()

	if text := flattenDocumentXML(content); text != "" {
		return text, nil
	}

	return scrapeTextRuns(content), nil
}

// flattenDocumentXML walks the document markup and concatenates character
// data, inserting line breaks at paragraph and explicit break boundaries.
func flattenDocumentXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))

	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}

	return strings.TrimSpace(buf.String())
}

func scrapeTextRuns(raw string) string {
	matches := textRunPattern.FindAllStringSubmatch(raw, -1)

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if fragment := strings.TrimSpace(m[1]); fragment != "" {
			parts = append(parts, fragment)
		}
	}

	return strings.Join(parts, " ")
}
