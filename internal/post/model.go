// Package post implements the post generation workflow and storage.
package post

import (
	"time"
)

// Platform names posts can be generated for.
const (
	PlatformX         = "X"
	PlatformLinkedIn  = "LinkedIn"
	PlatformFacebook  = "Facebook"
	PlatformInstagram = "Instagram"
)

// characterLimits are the per-platform maximum post lengths, counted
// in runes.
var characterLimits = map[string]int{
	PlatformX:         280,
	PlatformLinkedIn:  3000,
	PlatformFacebook:  63206,
	PlatformInstagram: 2200,
}

// Platforms returns the supported platform names in display order.
func Platforms() []string {
	return []string{PlatformX, PlatformLinkedIn, PlatformFacebook, PlatformInstagram}
}

// ValidPlatform reports whether the platform is supported.
func ValidPlatform(platform string) bool {
	_, ok := characterLimits[platform]
	return ok
}

// CharacterLimit returns the platform's maximum post length in runes,
// or 0 when the platform is unknown.
func CharacterLimit(platform string) int {
	return characterLimits[platform]
}

// Post is one generated social media post.
type Post struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batch_id"`
	Index     int       `json:"index"` // 1-based position within the batch
	Platform  string    `json:"platform"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	Text      string    `json:"text"`
	CharCount int       `json:"char_count"` // rune count of Text
	CreatedAt time.Time `json:"created_at"`
}

// OverLimit reports whether the post exceeds its platform's
// character limit.
func (p *Post) OverLimit() bool {
	limit := CharacterLimit(p.Platform)
	return limit > 0 && p.CharCount > limit
}

// Batch is the result of one generation run.
type Batch struct {
	ID       string  `json:"id"`
	Platform string  `json:"platform"`
	Provider string  `json:"provider"`
	Model    string  `json:"model,omitempty"`
	Posts    []*Post `json:"posts"`
}
