// Package verify gates extracted resume text before it is sent to the AI
// service. The checks are heuristics: they catch empty, truncated, or garbled
// extraction output, not every non-resume document.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	minTextLength     = 200
	minPrintableRatio = 0.8
)

// resumeKeywords are common section headings used as a proxy for "this is
// actually a resume". Matched as case-insensitive substrings.
var resumeKeywords = []string{
	"experience",
	"education",
	"skills",
	"summary",
	"projects",
}

// ErrFailed reports that extracted text did not pass verification. The
// wrapping error message carries every triggered issue.
var ErrFailed = errors.New("text verification failed")

// Result aggregates the outcome of the independent quality checks. The flags
// are non-exclusive; Empty short-circuits the rest.
type Result struct {
	Empty             bool
	TooShort          bool
	MissingKeywords   bool
	LowPrintableRatio bool
}

// Passed reports whether no check was triggered.
func (r Result) Passed() bool {
	return !(r.Empty || r.TooShort || r.MissingKeywords || r.LowPrintableRatio)
}

// Issues returns a human-readable description of every triggered flag.
func (r Result) Issues() []string {
	var issues []string
	if r.Empty {
		issues = append(issues, "extracted text is empty")
	}
	if r.TooShort {
		issues = append(issues, fmt.Sprintf("extracted text is too short (< %d characters)", minTextLength))
	}
	if r.MissingKeywords {
		issues = append(issues, fmt.Sprintf("none of the expected resume keywords found (%s)",
			strings.Join(resumeKeywords, ", ")))
	}
	if r.LowPrintableRatio {
		issues = append(issues, fmt.Sprintf("printable-character ratio is below %.0f%%", minPrintableRatio*100))
	}

	return issues
}

// Verifier runs the text-quality checks. It performs no I/O.
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier returns a Verifier logging triggered checks to the given logger.
func NewVerifier(logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Verifier{logger: logger}
}

// Verify runs all quality checks on text and returns the aggregated result.
// An empty input sets only the Empty flag since the remaining checks are
// meaningless without content.
func (v *Verifier) Verify(text string) Result {
	var result Result

	if strings.TrimSpace(text) == "" {
		result.Empty = true
		v.logger.Warn("verification failed", zap.String("reason", "extracted text is empty"))
		return result
	}

	length := len([]rune(text))
	if length < minTextLength {
		result.TooShort = true
		v.logger.Warn("verification warning",
			zap.Int("text_length", length),
			zap.Int("minimum", minTextLength),
		)
	}

	lower := strings.ToLower(text)
	found := false
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			found = true
			break
		}
	}
	if !found {
		result.MissingKeywords = true
		v.logger.Warn("verification warning", zap.String("reason", "no expected resume keywords found"))
	}

	if ratio := printableRatio(text); ratio < minPrintableRatio {
		result.LowPrintableRatio = true
		v.logger.Warn("verification warning",
			zap.Float64("printable_ratio", ratio),
			zap.Float64("minimum", minPrintableRatio),
		)
	}

	if result.Passed() {
		v.logger.Debug("text verification passed", zap.Int("text_length", length))
	} else {
		v.logger.Warn("text verification failed", zap.Strings("issues", result.Issues()))
	}

	return result
}

// printableRatio returns the fraction of runes that are printable ASCII,
// counting standard whitespace as printable.
func printableRatio(text string) float64 {
	printable, total := 0, 0
	for _, r := range text {
		total++
		if isPrintableASCII(r) {
			printable++
		}
	}
	if total == 0 {
		return 0
	}

	return float64(printable) / float64(total)
}

func isPrintableASCII(r rune) bool {
	if r >= 0x20 && r < 0x7f {
		return true
	}
	switch r {
	case '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}
