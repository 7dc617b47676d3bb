// Package prompt assembles the generation prompt sent to the LLM.
package prompt

import (
	"fmt"
	"strings"
)

// platformRules are appended verbatim to the prompt for the target
// platform.
var platformRules = map[string]string{
	"X":         "- Keep posts under 280 characters\n- Use 1-2 relevant hashtags\n- Write concisely and engagingly\n- Consider using emojis sparingly",
	"LinkedIn":  "- Professional tone and language\n- Can be longer form (up to 3000 characters)\n- Include industry insights\n- Use professional hashtags\n- Consider tagging relevant companies/people",
	"Facebook":  "- Conversational and engaging tone\n- Can include questions to drive engagement\n- Use emojis to add personality\n- Keep paragraphs short for readability",
	"Instagram": "- Visual-first mindset (assume images will accompany)\n- Use relevant hashtags (5-10 recommended)\n- Engaging and lifestyle-focused tone\n- Include call-to-action for engagement",
}

// Settings tune how adventurous the generated content should be.
type Settings struct {
	CreativityLevel    string // Conservative, Balanced, Creative, or Innovative
	ContentTone        string // Professional, Casual, Friendly, ...
	IncludeHashtags    bool
	IncludeEmojis      bool
	CallToAction       bool
	AvoidControversy   bool
	CustomInstructions string // Free-form extra instructions, highest priority
}

// DefaultSettings returns the settings used when the user tunes nothing.
func DefaultSettings() Settings {
	return Settings{
		CreativityLevel:  "Balanced",
		ContentTone:      "Professional",
		IncludeHashtags:  true,
		IncludeEmojis:    true,
		CallToAction:     true,
		AvoidControversy: true,
	}
}

// Input carries everything the prompt is built from.
type Input struct {
	SourceText string   // Combined text from the source files
	BrandGuide string   // Brand guide content, may be empty
	History    []string // Previous posts used as style examples
	Platform   string   // Target platform
	Count      int      // Number of posts to request
	Settings   Settings
}

// Build renders the full generation prompt. The output format section
// pins the "POST n:" / "---" convention the response parser expects.
func Build(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert social media content creator specializing in %s posts. Your task is to create %d high-quality, engaging social media posts based on the provided information.\n\n",
		in.Platform, in.Count)

	b.WriteString("## ROLE DEFINITION\n")
	b.WriteString("You are a professional social media content creator with expertise in:\n")
	b.WriteString("- Crafting engaging, platform-specific content\n")
	b.WriteString("- Understanding audience psychology and engagement drivers\n")
	b.WriteString("- Following brand voice and guidelines consistently\n")
	b.WriteString("- Creating posts that drive meaningful interaction\n\n")

	b.WriteString("## BRAND VOICE AND GUIDELINES\n")
	if strings.TrimSpace(in.BrandGuide) != "" {
		b.WriteString(in.BrandGuide)
	} else {
		b.WriteString("No specific brand guidelines provided. Use a professional yet approachable tone.")
	}
	b.WriteString("\n\n")

	b.WriteString("## SOURCE MATERIAL TO POST ABOUT\n")
	b.WriteString("Use this information as the foundation for your posts:\n")
	if strings.TrimSpace(in.SourceText) != "" {
		b.WriteString(in.SourceText)
	} else {
		b.WriteString("No specific source material provided. Create general engaging content.")
	}
	b.WriteString("\n\n")

	b.WriteString("## POST HISTORY FOR STYLE REFERENCE\n")
	b.WriteString("Here are examples of previous posts to understand the preferred style and tone:\n")
	if len(in.History) > 0 {
		for i, post := range in.History {
			fmt.Fprintf(&b, "\nExample %d: %s", i+1, post)
		}
	} else {
		b.WriteString("\nNo previous post examples provided. Create content that aligns with the brand guidelines above.")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## PLATFORM-SPECIFIC REQUIREMENTS FOR %s\n", strings.ToUpper(in.Platform))
	if rules, ok := platformRules[in.Platform]; ok {
		b.WriteString(rules)
	} else {
		b.WriteString("Follow general social media best practices.")
	}
	b.WriteString("\n\n")

	s := in.Settings
	b.WriteString("## ADVANCED GENERATION PREFERENCES\n")
	fmt.Fprintf(&b, "- Creativity Level: %s (adjust innovation vs. safety accordingly)\n", s.CreativityLevel)
	fmt.Fprintf(&b, "- Content Tone: %s\n", s.ContentTone)
	fmt.Fprintf(&b, "- Include Hashtags: %s\n", yesNo(s.IncludeHashtags, "Yes", "No"))
	fmt.Fprintf(&b, "- Include Emojis: %s\n", yesNo(s.IncludeEmojis, "Yes, use appropriately", "No emojis"))
	fmt.Fprintf(&b, "- Call-to-Action: %s\n", yesNo(s.CallToAction, "Include where relevant", "Avoid direct CTAs"))
	fmt.Fprintf(&b, "- Content Safety: %s\n\n", yesNo(s.AvoidControversy, "Avoid controversial topics", "Normal content guidelines"))

	if strings.TrimSpace(s.CustomInstructions) != "" {
		b.WriteString("## CUSTOM INSTRUCTIONS\n")
		b.WriteString("The user has provided specific instructions that take priority over the general preferences above:\n")
		b.WriteString(s.CustomInstructions)
		b.WriteString("\n\n")
	}

	b.WriteString("## GENERATION INSTRUCTIONS\n")
	fmt.Fprintf(&b, "Please generate exactly %d %s that:\n", in.Count, plural(in.Count, "post", "posts"))
	b.WriteString("1. Incorporate the source material naturally and engagingly\n")
	b.WriteString("2. Follow the brand voice and guidelines provided\n")
	b.WriteString("3. Match the style and tone of previous posts\n")
	fmt.Fprintf(&b, "4. Adhere to %s platform requirements and character limits\n", in.Platform)
	b.WriteString("5. Are unique and distinct from each other\n")
	b.WriteString("6. Follow the advanced preferences specified above\n")
	fmt.Fprintf(&b, "7. %s\n", yesNo(s.IncludeHashtags, "Include relevant hashtags", "Avoid hashtags"))
	fmt.Fprintf(&b, "8. %s\n", yesNo(s.IncludeEmojis, "Use emojis appropriately", "Do not use emojis"))
	fmt.Fprintf(&b, "9. %s\n\n", yesNo(s.CallToAction, "Include calls-to-action where relevant", "Focus on informational content"))

	b.WriteString("## OUTPUT FORMAT\n")
	b.WriteString("Format your response exactly as follows, separating each post with \"---\":\n\n")
	b.WriteString("POST 1: [Your first post content here]\n")
	b.WriteString("---\n")
	b.WriteString("POST 2: [Your second post content here]\n")
	b.WriteString("---\n")
	b.WriteString("POST 3: [Your third post content here]\n\n")
	fmt.Fprintf(&b, "Continue this pattern for all %d posts. Each post should be complete and ready to publish on %s.",
		in.Count, in.Platform)

	return b.String()
}

func yesNo(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
