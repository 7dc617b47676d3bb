// Package sanitize turns arbitrary LLM output into normalized,
// encoding-safe text. The pipeline repairs known mojibake signatures,
// applies NFKC normalization, substitutes problematic characters via a
// replacement table and strips disallowed control characters. It is a
// total function over strings and idempotent, so it can be applied to a
// whole response and again to each extracted post.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/postforge/postforge/internal/loggy"
)

var (
	multiSpaceRe   = regexp.MustCompile(` {3,}`)
	multiNewlineRe = regexp.MustCompile(`\n{4,}`)
)

// Sanitizer runs the text sanitization pipeline. The zero value is not
// usable; construct with New.
type Sanitizer struct {
	mapping *Mapping
	logger  *loggy.Logger
}

// New creates a Sanitizer. A nil mapping gets the built-in default
// table; a nil logger disables diagnostics.
func New(mapping *Mapping, logger *loggy.Logger) *Sanitizer {
	if mapping == nil {
		mapping = NewMapping()
	}
	return &Sanitizer{mapping: mapping, logger: logger}
}

// Mapping returns the sanitizer's replacement table, for runtime
// extension via Add.
func (s *Sanitizer) Mapping() *Mapping {
	return s.mapping
}

// Sanitize transforms text into normalized, display-safe form. It never
// fails: unmappable characters are replaced with the closest safe
// equivalent or removed. Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(text string) string {
	clean, report := s.Inspect(text)
	if report.HadIssues && s.logger != nil {
		s.logger.Debug("sanitizer found residual issues", "count", len(report.Issues), "issues", report.Issues)
	}
	return clean
}

// Inspect is Sanitize plus the diagnostic report describing anything
// suspicious left in the result. The report never affects the output.
func (s *Sanitizer) Inspect(text string) (string, Report) {
	if text == "" {
		return text, Report{}
	}

	// Mixed line endings, then mojibake repair. Repair must run before
	// NFKC because corrupted multi-byte sequences do not canonicalize
	// back to the intended character.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = repairArtifacts(text)

	text = normalize(text)
	text = s.mapping.Apply(text)
	text = stripControls(text)
	text = tidyWhitespace(text)

	return text, inspect(text)
}

// tidyWhitespace normalizes excessive whitespace while preserving
// intentional formatting: runs of 3+ spaces become two, runs of 4+
// newlines become three, and trailing whitespace is removed per line.
func tidyWhitespace(text string) string {
	text = multiSpaceRe.ReplaceAllString(text, "  ")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
