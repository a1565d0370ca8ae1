package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Experience: platform engineering</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Skills</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Go, SQL</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func TestFlattenDocumentXML(t *testing.T) {
	text := flattenDocumentXML(sampleDocumentXML)

	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Experience: platform engineering")
	assert.Contains(t, text, "Skills")
	assert.Contains(t, text, "Go, SQL")
	// Paragraph boundaries become line breaks.
	assert.Contains(t, text, "Jane Doe\n")
}

func TestFlattenDocumentXMLEmptyOnBadMarkup(t *testing.T) {
	assert.Equal(t, "", flattenDocumentXML("<w:document><unclosed"))
}

func TestScrapeTextRuns(t *testing.T) {
	raw := `<w:p><w:r><w:t xml:space="preserve">Jane</w:t></w:r>` +
		`<w:r><w:t>Doe</w:t></w:r></w:p><w:r><w:t>  </w:t></w:r>`

	assert.Equal(t, "Jane Doe", scrapeTextRuns(raw))
}

func TestScrapeTextRunsNoMatches(t *testing.T) {
	assert.Equal(t, "", scrapeTextRuns("<w:document></w:document>"))
}
