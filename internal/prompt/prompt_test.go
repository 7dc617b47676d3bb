package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	base := Input{
		SourceText: "We are launching a new analytics dashboard next week.",
		BrandGuide: "Always confident, never arrogant.",
		History:    []string{"First old post", "Second old post"},
		Platform:   "LinkedIn",
		Count:      3,
		Settings:   DefaultSettings(),
	}

	t.Run("contains every section", func(t *testing.T) {
		p := Build(base)
		for _, section := range []string{
			"## ROLE DEFINITION",
			"## BRAND VOICE AND GUIDELINES",
			"## SOURCE MATERIAL TO POST ABOUT",
			"## POST HISTORY FOR STYLE REFERENCE",
			"## PLATFORM-SPECIFIC REQUIREMENTS FOR LINKEDIN",
			"## ADVANCED GENERATION PREFERENCES",
			"## GENERATION INSTRUCTIONS",
			"## OUTPUT FORMAT",
		} {
			assert.Contains(t, p, section)
		}
		assert.Contains(t, p, base.SourceText)
		assert.Contains(t, p, base.BrandGuide)
		assert.Contains(t, p, "Example 1: First old post")
		assert.Contains(t, p, "Example 2: Second old post")
		assert.Contains(t, p, "create 3 high-quality")
		assert.Contains(t, p, "generate exactly 3 posts")
	})

	t.Run("pins the output format contract", func(t *testing.T) {
		p := Build(base)
		assert.Contains(t, p, "POST 1: [Your first post content here]")
		assert.Contains(t, p, "---")
		assert.Contains(t, p, `separating each post with "---"`)
	})

	t.Run("empty brand guide and source get placeholders", func(t *testing.T) {
		in := base
		in.BrandGuide = "   "
		in.SourceText = ""
		p := Build(in)
		assert.Contains(t, p, "No specific brand guidelines provided.")
		assert.Contains(t, p, "No specific source material provided.")
	})

	t.Run("empty history gets a placeholder", func(t *testing.T) {
		in := base
		in.History = nil
		p := Build(in)
		assert.Contains(t, p, "No previous post examples provided.")
		assert.NotContains(t, p, "Example 1:")
	})

	t.Run("unknown platform falls back to general rules", func(t *testing.T) {
		in := base
		in.Platform = "Mastodon"
		p := Build(in)
		assert.Contains(t, p, "## PLATFORM-SPECIFIC REQUIREMENTS FOR MASTODON")
		assert.Contains(t, p, "Follow general social media best practices.")
	})

	t.Run("singular form for one post", func(t *testing.T) {
		in := base
		in.Count = 1
		p := Build(in)
		assert.Contains(t, p, "generate exactly 1 post that")
	})

	t.Run("settings toggle the preference lines", func(t *testing.T) {
		in := base
		in.Settings.IncludeHashtags = false
		in.Settings.IncludeEmojis = false
		in.Settings.CallToAction = false
		p := Build(in)
		assert.Contains(t, p, "Avoid hashtags")
		assert.Contains(t, p, "Do not use emojis")
		assert.Contains(t, p, "Focus on informational content")
	})

	t.Run("custom instructions get their own section", func(t *testing.T) {
		in := base
		in.Settings.CustomInstructions = "Mention the beta signup link in every post."
		p := Build(in)
		assert.Contains(t, p, "## CUSTOM INSTRUCTIONS")
		assert.Contains(t, p, "Mention the beta signup link in every post.")

		without := Build(base)
		assert.NotContains(t, without, "## CUSTOM INSTRUCTIONS")
	})

	t.Run("platform rules are platform specific", func(t *testing.T) {
		in := base
		in.Platform = "X"
		p := Build(in)
		assert.Contains(t, p, "under 280 characters")
		assert.False(t, strings.Contains(p, "up to 3000 characters"))
	})
}
