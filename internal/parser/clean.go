package parser

import (
	"regexp"
	"strings"
)

var (
	leadingMarkerRe  = regexp.MustCompile(`(?i)^\s*POST\s+\d+\s*:\s*`)
	leadingPrefaceRe = regexp.MustCompile(`(?i)^\s*Here\s+(?:are|is)\s+(?:your|the)\s+posts?\s*:?\s*`)
	leadingOrdinalRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	leadingBulletRe  = regexp.MustCompile(`^\s*[-*\x{2022}]\s+`)
	boldRe           = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe         = regexp.MustCompile(`\*(.*?)\*`)
)

// separatorLine reports whether a trimmed line is pure formatting
// punctuation left over from block splitting.
func separatorLine(line string) bool {
	switch line {
	case "***", "===", "...":
		return true
	}
	if len(line) >= 3 && strings.Count(line, "-") == len(line) {
		return true
	}
	return false
}

// cleanBlock strips the labels and markdown dressing models wrap
// around post text, leaving only the post itself.
func cleanBlock(block string) string {
	block = leadingPrefaceRe.ReplaceAllString(block, "")
	block = leadingMarkerRe.ReplaceAllString(block, "")
	block = leadingOrdinalRe.ReplaceAllString(block, "")
	block = leadingBulletRe.ReplaceAllString(block, "")

	block = boldRe.ReplaceAllString(block, "$1")
	block = italicRe.ReplaceAllString(block, "$1")

	lines := strings.Split(block, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if separatorLine(trimmed) {
			continue
		}
		if trimmed == "" {
			blank = true
			continue
		}
		// Keep at most one blank line between runs of text.
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
