package models

import "time"

// ForumPost is a single scraped discussion-board post with its comments.
type ForumPost struct {
	Title     string
	URL       string
	Content   string
	Comments  string
	CreatedAt time.Time
}

// BrandMention is one sentence attributed to a brand keyword.
type BrandMention struct {
	Text  string
	URL   string
	Title string
}

// KeywordCount is one entry of the word-frequency ranking.
type KeywordCount struct {
	Word  string
	Count int
}
