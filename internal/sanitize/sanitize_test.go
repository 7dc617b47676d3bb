package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postforge/postforge/internal/loggy"
)

func newTestSanitizer() *Sanitizer {
	return New(nil, loggy.NewNoopLogger())
}

func TestSanitize(t *testing.T) {
	s := newTestSanitizer()

	t.Run("empty input passes through", func(t *testing.T) {
		assert.Equal(t, "", s.Sanitize(""))
	})

	t.Run("plain text is unchanged", func(t *testing.T) {
		input := "Just announced: our new product line!\nAvailable now."
		assert.Equal(t, input, s.Sanitize(input))
	})

	t.Run("repairs shift-jis em dash corruption", func(t *testing.T) {
		assert.Equal(t, "—", s.Sanitize("窶覇"))
	})

	t.Run("repairs windows-1252 smart quote corruption", func(t *testing.T) {
		assert.Equal(t, "It's done", s.Sanitize("Itâ€™s done"))
	})

	t.Run("repairs double-encoded apostrophe", func(t *testing.T) {
		assert.Equal(t, "We're live", s.Sanitize("WeÃ¢Â€Â™re live"))
	})

	t.Run("maps smart quotes to straight quotes", func(t *testing.T) {
		assert.Equal(t, `"Hello"`, s.Sanitize("“Hello”"))
	})

	t.Run("removes zero-width space", func(t *testing.T) {
		assert.Equal(t, "café au lait", s.Sanitize("café​ au lait"))
	})

	t.Run("removes byte order marks", func(t *testing.T) {
		assert.Equal(t, "lead text", s.Sanitize("\uFEFFlead\uFEFF text"))
	})

	t.Run("converts non-breaking and thin spaces", func(t *testing.T) {
		assert.Equal(t, "a b c", s.Sanitize("a b c"))
	})

	t.Run("collapses ellipsis character", func(t *testing.T) {
		assert.Equal(t, "wait for it...", s.Sanitize("wait for it…"))
	})

	t.Run("normalizes full-width characters", func(t *testing.T) {
		assert.Equal(t, "ABC 123", s.Sanitize("ＡＢＣ １２３"))
	})

	t.Run("strips disallowed control characters", func(t *testing.T) {
		assert.Equal(t, "ab", s.Sanitize("a\x00\x08b"))
	})

	t.Run("keeps newline and tab", func(t *testing.T) {
		assert.Equal(t, "a\tb\nc", s.Sanitize("a\tb\nc"))
	})

	t.Run("normalizes line endings", func(t *testing.T) {
		assert.Equal(t, "a\nb\nc", s.Sanitize("a\r\nb\rc"))
	})

	t.Run("collapses excessive whitespace", func(t *testing.T) {
		assert.Equal(t, "a  b", s.Sanitize("a     b"))
		assert.Equal(t, "a\n\n\nb", s.Sanitize("a\n\n\n\n\n\nb"))
	})

	t.Run("strips trailing whitespace per line", func(t *testing.T) {
		assert.Equal(t, "a\nb", s.Sanitize("a  \nb "))
	})

	t.Run("preserves emoji", func(t *testing.T) {
		input := "Launch day \U0001f680 let's go"
		assert.Equal(t, input, s.Sanitize(input))
	})
}

func TestSanitizeIdempotence(t *testing.T) {
	s := newTestSanitizer()

	inputs := []string{
		"",
		"plain text",
		"窶覇 broken dash",
		"“smart” and ‘single’ quotes",
		"zero​width and nb space",
		"Itâ€™s a testâ€¦",
		"multi   spaces\n\n\n\n\nand newlines",
		"café résumé ＴＥＳＴ",
		"emoji \U0001f389 and #hashtags",
	}

	for _, input := range inputs {
		once := s.Sanitize(input)
		twice := s.Sanitize(once)
		assert.Equal(t, once, twice, "sanitize must be idempotent for %q", input)
	}
}

func TestSanitizeRepairBeforeNormalization(t *testing.T) {
	s := newTestSanitizer()

	// The corruption signature must be repaired as a unit; NFKC applied
	// first would leave the individual characters untouched and the
	// replacement table would then see no match.
	got := s.Sanitize("before 窶覇 after")
	assert.Equal(t, "before — after", got)
}

func TestInspect(t *testing.T) {
	s := newTestSanitizer()

	t.Run("clean text reports no issues", func(t *testing.T) {
		_, report := s.Inspect("perfectly ordinary text")
		assert.False(t, report.HadIssues)
		assert.Empty(t, report.Issues)
	})

	t.Run("private use characters are reported but kept", func(t *testing.T) {
		clean, report := s.Inspect("odd  char")
		assert.True(t, report.HadIssues)
		assert.Contains(t, clean, "")
	})
}

func TestMapping(t *testing.T) {
	t.Run("add overrides default", func(t *testing.T) {
		m := NewMapping()
		m.Add("“", "«")
		m.Add("”", "»")

		s := New(m, loggy.NewNoopLogger())
		assert.Equal(t, "«quoted»", s.Sanitize("“quoted”"))
	})

	t.Run("last write wins", func(t *testing.T) {
		m := NewMapping()
		m.Add("@@", "first")
		m.Add("@@", "second")

		assert.Equal(t, "second", m.Apply("@@"))
	})

	t.Run("longest key first", func(t *testing.T) {
		m := NewMapping()
		m.Add("ab", "X")
		m.Add("abc", "Y")

		assert.Equal(t, "Y", m.Apply("abc"))
	})

	t.Run("empty source is ignored", func(t *testing.T) {
		m := NewMapping()
		m.Add("", "boom")

		assert.Equal(t, "ok", m.Apply("ok"))
	})
}
