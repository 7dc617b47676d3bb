package sanitize

import (
	"fmt"
	"strings"
	"unicode"
)

// Report describes residual encoding issues found after sanitization.
// It is advisory: callers may log it, but it never changes the pipeline
// output.
type Report struct {
	HadIssues bool
	Issues    []string
}

// suspectPatterns are substrings that indicate a corruption signature
// survived repair, usually a new mojibake variant not yet in the table.
var suspectPatterns = []string{"窶", "竊", "Ã¢Â€", "â€"}

// inspect scans sanitized text for characters and patterns outside the
// accepted set. It reports, it does not modify.
func inspect(text string) Report {
	var report Report

	for _, pattern := range suspectPatterns {
		if strings.Contains(text, pattern) {
			report.Issues = append(report.Issues, fmt.Sprintf("residual corruption signature %q", pattern))
		}
	}

	var controls, privateUse []string
	for i, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			controls = append(controls, fmt.Sprintf("position %d (U+%04X)", i, r))
		}
		if unicode.In(r, unicode.Co) {
			privateUse = append(privateUse, fmt.Sprintf("%c (U+%04X)", r, r))
		}
	}

	if len(controls) > 0 {
		if len(controls) > 3 {
			controls = controls[:3]
		}
		report.Issues = append(report.Issues, "control characters found: "+strings.Join(controls, ", "))
	}

	if len(privateUse) > 0 {
		if len(privateUse) > 3 {
			privateUse = privateUse[:3]
		}
		report.Issues = append(report.Issues, "private use characters found: "+strings.Join(privateUse, ", "))
	}

	report.HadIssues = len(report.Issues) > 0
	return report
}

// stripControls removes disallowed control characters (category Cc
// except newline and tab). Line endings are normalized beforehand, so
// carriage returns never make it here.
func stripControls(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}
