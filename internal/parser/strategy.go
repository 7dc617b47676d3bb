package parser

import (
	"regexp"
	"strings"
)

// Strategy identifies the splitting convention a parse result came from.
type Strategy string

const (
	// StrategyPostBlocks splits on "POST n:" markers with dash separators.
	StrategyPostBlocks Strategy = "post_blocks"
	// StrategyPostBlocksNoSeparator splits on bare "POST n:" markers.
	StrategyPostBlocksNoSeparator Strategy = "post_blocks_no_separator"
	// StrategyNumberedList splits on "1." style numbered list items.
	StrategyNumberedList Strategy = "numbered_list"
	// StrategyDashSeparator splits on lines of three or more dashes.
	StrategyDashSeparator Strategy = "dash_separator"
	// StrategyDoubleNewline splits on blank-line gaps between paragraphs.
	StrategyDoubleNewline Strategy = "double_newline"
	// StrategySinglePost wraps the whole response as one post.
	StrategySinglePost Strategy = "single_post"
)

var (
	postMarkerRe   = regexp.MustCompile(`(?i)\bPOST\s+\d+\s*:`)
	numberedItemRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	dashLineRe     = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
	blankGapRe     = regexp.MustCompile(`\n[ \t]*\n+`)
)

// minParagraphLen guards the paragraph strategy against splitting a
// single post at incidental blank lines. Fragments shorter than this
// are treated as formatting noise, not posts.
const minParagraphLen = 20

type strategy struct {
	name  Strategy
	match func(string) bool
	split func(string) []string
}

// strategies are tried in order. Earlier entries recognize more
// explicit structure, so a match there is more trustworthy than one
// further down the list.
var strategies = []strategy{
	{
		name: StrategyPostBlocks,
		match: func(s string) bool {
			return postMarkerRe.MatchString(s) && dashLineRe.MatchString(s)
		},
		split: splitOnPostMarkers,
	},
	{
		name: StrategyPostBlocksNoSeparator,
		match: func(s string) bool {
			// A lone "POST 1:" heading on a single post is common;
			// only treat the markers as separators when there are
			// at least two of them.
			return len(postMarkerRe.FindAllStringIndex(s, -1)) >= 2
		},
		split: splitOnPostMarkers,
	},
	{
		name: StrategyNumberedList,
		match: func(s string) bool {
			return numberedItemRe.MatchString(s)
		},
		split: func(s string) []string {
			return splitAfterMarkers(s, numberedItemRe)
		},
	},
	{
		name: StrategyDashSeparator,
		match: func(s string) bool {
			return dashLineRe.MatchString(s)
		},
		split: func(s string) []string {
			return dashLineRe.Split(s, -1)
		},
	},
	{
		name: StrategyDoubleNewline,
		match: func(s string) bool {
			return blankGapRe.MatchString(strings.TrimSpace(s))
		},
		split: func(s string) []string {
			parts := blankGapRe.Split(s, -1)
			blocks := make([]string, 0, len(parts))
			for _, p := range parts {
				if len(strings.TrimSpace(p)) > minParagraphLen {
					blocks = append(blocks, p)
				}
			}
			return blocks
		},
	},
	{
		name:  StrategySinglePost,
		match: func(string) bool { return true },
		split: func(s string) []string { return []string{s} },
	},
}

// splitOnPostMarkers returns the text between consecutive "POST n:"
// markers. Preamble before the first marker is discarded.
func splitOnPostMarkers(s string) []string {
	return splitAfterMarkers(s, postMarkerRe)
}

func splitAfterMarkers(s string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, s[loc[1]:end])
	}
	return blocks
}
