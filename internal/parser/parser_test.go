package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postforge/postforge/internal/loggy"
)

func newTestParser() *Parser {
	return New(nil, loggy.NewNoopLogger())
}

func TestParsePostBlocks(t *testing.T) {
	p := newTestParser()

	t.Run("markers with separators", func(t *testing.T) {
		posts := p.Parse("POST 1:\nHello\n---\nPOST 2:\nWorld", 2)
		assert.Equal(t, []string{"Hello", "World"}, posts)
	})

	t.Run("preamble before first marker is dropped", func(t *testing.T) {
		resp := "Here are your posts:\n\nPOST 1:\nFirst one\n---\nPOST 2:\nSecond one\n---"
		posts := p.Parse(resp, 2)
		assert.Equal(t, []string{"First one", "Second one"}, posts)
	})

	t.Run("markers without separators", func(t *testing.T) {
		posts := p.Parse("POST 1: Alpha\nPOST 2: Beta\nPOST 3: Gamma", 3)
		assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, posts)
	})

	t.Run("case insensitive markers", func(t *testing.T) {
		posts := p.Parse("post 1: one thing\npost 2: another thing", 2)
		assert.Equal(t, []string{"one thing", "another thing"}, posts)
	})

	t.Run("empty block between markers is dropped", func(t *testing.T) {
		posts := p.Parse("POST 1:\n---\nPOST 2:\nReal content", 2)
		assert.Equal(t, []string{"Real content"}, posts)
	})

	t.Run("multiline posts keep internal structure", func(t *testing.T) {
		resp := "POST 1:\nLine one\nLine two\n---\nPOST 2:\nOther"
		posts := p.Parse(resp, 2)
		assert.Equal(t, []string{"Line one\nLine two", "Other"}, posts)
	})
}

func TestParseNumberedList(t *testing.T) {
	p := newTestParser()

	t.Run("basic numbered list", func(t *testing.T) {
		posts := p.Parse("1. First post\n2. Second post", 2)
		assert.Equal(t, []string{"First post", "Second post"}, posts)
	})

	t.Run("parenthesis style numbering", func(t *testing.T) {
		posts := p.Parse("1) First post\n2) Second post", 2)
		assert.Equal(t, []string{"First post", "Second post"}, posts)
	})

	t.Run("preamble before list is dropped", func(t *testing.T) {
		resp := "Sure, here you go:\n1. One thing\n2. Another thing"
		posts := p.Parse(resp, 2)
		assert.Equal(t, []string{"One thing", "Another thing"}, posts)
	})
}

func TestParseDashSeparator(t *testing.T) {
	p := newTestParser()

	t.Run("plain blocks split on dash lines", func(t *testing.T) {
		resp := "First block of text\n---\nSecond block of text\n-----\nThird block of text"
		posts := p.Parse(resp, 3)
		assert.Equal(t, []string{
			"First block of text",
			"Second block of text",
			"Third block of text",
		}, posts)
	})

	t.Run("dashes inside a line do not split", func(t *testing.T) {
		posts := p.Parse("A well---hyphenated aside\n---\nSecond block", 2)
		assert.Equal(t, []string{"A well---hyphenated aside", "Second block"}, posts)
	})
}

func TestParseDoubleNewline(t *testing.T) {
	p := newTestParser()

	t.Run("paragraphs split on blank lines", func(t *testing.T) {
		resp := "This is the first paragraph of text.\n\nThis is the second paragraph of text."
		posts := p.Parse(resp, 2)
		assert.Equal(t, []string{
			"This is the first paragraph of text.",
			"This is the second paragraph of text.",
		}, posts)
	})

	t.Run("short fragments are dropped", func(t *testing.T) {
		resp := "This is a real paragraph with plenty of content in it.\n\nOk!\n\nAnother genuine paragraph with plenty of content too."
		posts := p.Parse(resp, 2)
		assert.Equal(t, []string{
			"This is a real paragraph with plenty of content in it.",
			"Another genuine paragraph with plenty of content too.",
		}, posts)
	})
}

func TestParseSinglePostFallback(t *testing.T) {
	p := newTestParser()

	t.Run("unstructured response wraps as one post", func(t *testing.T) {
		posts := p.Parse("Just one short post.", 1)
		assert.Equal(t, []string{"Just one short post."}, posts)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		posts := p.Parse("  \n  A single post.  \n", 1)
		assert.Equal(t, []string{"A single post."}, posts)
	})
}

func TestParseWindowsLineEndings(t *testing.T) {
	p := newTestParser()

	t.Run("dash separators split CRLF responses", func(t *testing.T) {
		posts := p.Parse("First block of text\r\n---\r\nSecond block of text", 2)
		assert.Equal(t, []string{"First block of text", "Second block of text"}, posts)
	})

	t.Run("blank gaps split CRLF paragraphs", func(t *testing.T) {
		resp := "This is the first paragraph of text.\r\n\r\nThis is the second paragraph of text."
		posts := p.Parse(resp, 2)
		assert.Equal(t, []string{
			"This is the first paragraph of text.",
			"This is the second paragraph of text.",
		}, posts)
	})

	t.Run("markers with CRLF separators", func(t *testing.T) {
		posts := p.Parse("POST 1:\r\nHello\r\n---\r\nPOST 2:\r\nWorld", 2)
		assert.Equal(t, []string{"Hello", "World"}, posts)
	})
}

func TestParseBlankInput(t *testing.T) {
	p := newTestParser()

	assert.Nil(t, p.Parse("", 3))
	assert.Nil(t, p.Parse("   \n\t\n  ", 3))
	assert.Nil(t, p.Parse("---\n---", 2), "separator-only response has no usable text")
}

func TestParseExpectedCount(t *testing.T) {
	p := newTestParser()

	t.Run("fallback never outranks a real split", func(t *testing.T) {
		resp := "1. A first item in a list\n2. A second item in it\n3. A third item in it"
		posts := p.Parse(resp, 1)
		// The numbered list is two away from the expectation, but the
		// whole-response fallback must not win on count alone.
		assert.Equal(t, []string{
			"A first item in a list",
			"A second item in it",
			"A third item in it",
		}, posts)
	})

	t.Run("off by one is accepted", func(t *testing.T) {
		posts := p.Parse("1. First item here\n2. Second item here", 3)
		assert.Equal(t, []string{"First item here", "Second item here"}, posts)
	})

	t.Run("highest priority wins when nothing is close", func(t *testing.T) {
		resp := "POST 1:\nAlpha\n---\nPOST 2:\nBeta"
		posts := p.Parse(resp, 10)
		assert.Equal(t, []string{"Alpha", "Beta"}, posts)
	})

	t.Run("zero expectation disables reranking", func(t *testing.T) {
		resp := "1. First item here\n2. Second item here"
		posts := p.Parse(resp, 0)
		assert.Equal(t, []string{"First item here", "Second item here"}, posts)
	})
}

func TestParseCleanup(t *testing.T) {
	p := newTestParser()

	t.Run("markdown emphasis is stripped", func(t *testing.T) {
		posts := p.Parse("POST 1:\n**Bold claim** with *gentle emphasis*\n---\nPOST 2:\nPlain", 2)
		assert.Equal(t, []string{"Bold claim with gentle emphasis", "Plain"}, posts)
	})

	t.Run("leftover separator lines are removed", func(t *testing.T) {
		posts := p.Parse("POST 1:\nBody text\n***\n---\nPOST 2:\nMore text\n...", 2)
		assert.Equal(t, []string{"Body text", "More text"}, posts)
	})

	t.Run("blank runs collapse to one", func(t *testing.T) {
		posts := p.Parse("POST 1:\nFirst line\n\n\n\nSecond line\n---\nPOST 2:\nOther", 2)
		assert.Equal(t, []string{"First line\n\nSecond line", "Other"}, posts)
	})

	t.Run("leading bullet is stripped", func(t *testing.T) {
		posts := p.Parse("POST 1:\n- A bulleted opener\n---\nPOST 2:\nOther", 2)
		assert.Equal(t, []string{"A bulleted opener", "Other"}, posts)
	})

	t.Run("posts are sanitized", func(t *testing.T) {
		posts := p.Parse("POST 1:\nIt’s “fine”\n---\nPOST 2:\nOther", 2)
		assert.Equal(t, []string{`It's "fine"`, "Other"}, posts)
	})
}

func TestParseOrderPreserved(t *testing.T) {
	p := newTestParser()

	resp := "POST 1:\nfirst\n---\nPOST 2:\nsecond\n---\nPOST 3:\nthird\n---\nPOST 4:\nfourth"
	posts := p.Parse(resp, 4)
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, posts)
}
