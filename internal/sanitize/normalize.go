package sanitize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// artifactRepairs maps known mojibake signatures to the character the
// model meant. These are byte sequences produced by decoding UTF-8 as a
// single-byte (or Shift-JIS) codepage and re-encoding; they must be
// repaired before NFKC normalization because the corrupted sequences do
// not canonicalize back to the intended character.
var artifactRepairs = [...]struct {
	corrupted string
	repaired  string
}{
	// UTF-8 double-encoding of smart punctuation
	{"Ã¢Â€Â™", "'"}, // Ã¢Â€Â™ → right single quote
	{"Ã¢Â€Âœ", `"`}, // Ã¢Â€Âœ → left double quote
	{"Ã¢Â€Â”", "—"}, // Ã¢Â€Â" → em dash
	{"Ã¢Â€Â", `"`},  // Ã¢Â€Â → right double quote

	// Shift-JIS round-trip signatures
	{"窶覇", "—"},  // 窶覇 → em dash
	{"窶懊", `"`},  // 窶懊 → double quote
	{"窶暖", "—"},  // 窶暖 → em dash
	{"窶兤", "—"},  // 窶兤 → em dash
	{"窶忤", `"`},  // 窶忤 → left double quote
	{"窶歛", "'"},  // 窶歛 → left single quote
	{"窶戮", "'"},  // 窶戮 → right single quote
	{"窶", `"`},   // 窶 → right double quote
	{"竊会", ` "`}, // 竊会 → space + quote
	{"竊曇", `"`},  // 竊曇 → quote
	{"竊", `"`},   // 竊 → quote

	// Windows-1252 / UTF-8 round-trip signatures
	{"â€™", "'"},   // â€™ → right single quote
	{"â€œ", `"`},   // â€œ → left double quote
	{"â€¦", "..."}, // â€¦ → ellipsis
	{"â€”", "—"},   // â€" → em dash
	{"â€", `"`},    // â€ → right double quote
}

// repairArtifacts replaces known corruption signatures with the intended
// characters. The table is ordered longest-signature-first so that a
// short signature that prefixes a longer one (e.g. 窶 inside 窶覇) cannot
// clobber it.
func repairArtifacts(text string) string {
	for _, r := range artifactRepairs {
		if strings.Contains(text, r.corrupted) {
			text = strings.ReplaceAll(text, r.corrupted, r.repaired)
		}
	}
	return text
}

// normalize applies NFKC so visually or semantically equivalent
// representations (full-width forms, combining sequences) collapse to a
// single representation.
func normalize(text string) string {
	return norm.NFKC.String(text)
}
