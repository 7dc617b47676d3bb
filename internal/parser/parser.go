// Package parser splits raw LLM responses into individual posts.
//
// Models are asked to delimit posts with "POST n:" headers and dash
// separators, but they routinely improvise: numbered lists, bare
// separators, or plain paragraphs. The parser tries a fixed sequence
// of splitting strategies, from the most explicit structure down to a
// whole-response fallback, and cleans each extracted block.
package parser

import (
	"strings"

	"github.com/postforge/postforge/internal/loggy"
	"github.com/postforge/postforge/internal/sanitize"
)

// Parser extracts posts from model output.
type Parser struct {
	sanitizer *sanitize.Sanitizer
	logger    *loggy.Logger
}

// New creates a parser. A nil sanitizer gets a default one so every
// extracted post still passes through text cleanup.
func New(sanitizer *sanitize.Sanitizer, logger *loggy.Logger) *Parser {
	if sanitizer == nil {
		sanitizer = sanitize.New(nil, logger)
	}
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Parser{
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// Parse sanitizes the full response and splits it into posts.
// Strategies are tried in priority order and the first that yields
// posts wins, except when expectedCount is positive: then a
// lower-priority strategy whose post count lands within one of the
// expectation is preferred over a higher-priority one that is further
// off. Returns nil when the response holds no usable text.
func (p *Parser) Parse(response string, expectedCount int) []string {
	// Sanitizing the whole response first means the strategy regexes
	// see normalized line endings and mojibake-free text. Each block
	// is sanitized again after splitting, which is a no-op on already
	// clean text.
	response = p.sanitizer.Sanitize(response)
	if strings.TrimSpace(response) == "" {
		return nil
	}

	var (
		firstPosts []string
		firstName  Strategy
	)
	for _, s := range strategies {
		if !s.match(response) {
			continue
		}
		posts := p.collect(s.split(response))
		if len(posts) == 0 {
			continue
		}
		// The whole-response fallback always "matches", so it never
		// outranks an earlier strategy that produced real splits.
		if s.name == StrategySinglePost && firstPosts != nil {
			break
		}
		if expectedCount <= 0 || withinOne(len(posts), expectedCount) {
			p.logged(s.name, len(posts), expectedCount)
			return posts
		}
		if firstPosts == nil {
			firstPosts, firstName = posts, s.name
		}
	}

	if firstPosts != nil {
		p.logged(firstName, len(firstPosts), expectedCount)
	}
	return firstPosts
}

// collect cleans and sanitizes raw blocks, dropping any that end up
// empty.
func (p *Parser) collect(blocks []string) []string {
	posts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		text := p.sanitizer.Sanitize(cleanBlock(block))
		if text == "" {
			continue
		}
		posts = append(posts, text)
	}
	if len(posts) == 0 {
		return nil
	}
	return posts
}

func (p *Parser) logged(name Strategy, got, expected int) {
	p.logger.Debug("parsed response",
		"strategy", string(name),
		"posts", got,
		"expected", expected)
}

func withinOne(got, expected int) bool {
	d := got - expected
	return d >= -1 && d <= 1
}
