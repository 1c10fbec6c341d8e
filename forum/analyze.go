package forum

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"marketing-intel/models"
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)
	wordStripRe     = regexp.MustCompile(`[^가-힣a-zA-Z]+`)
)

const minMentionRunes = 6

func fullText(p models.ForumPost) string {
	return p.Title + "\n" + p.Content + "\n" + p.Comments
}

// BrandMentions splits every post into sentences and attributes each
// sentence to every brand keyword it contains. Sentences of 5 runes or
// fewer are too short to carry signal and are dropped.
func BrandMentions(posts []models.ForumPost, brands []string) map[string][]models.BrandMention {
	mentions := make(map[string][]models.BrandMention)

	for _, post := range posts {
		sentences := sentenceSplitRe.Split(fullText(post), -1)
		for _, raw := range sentences {
			sentence := strings.TrimSpace(raw)
			if utf8.RuneCountInString(sentence) < minMentionRunes {
				continue
			}
			for _, brand := range brands {
				if strings.Contains(sentence, brand) {
					mentions[brand] = append(mentions[brand], models.BrandMention{
						Text:  sentence,
						URL:   post.URL,
						Title: post.Title,
					})
				}
			}
		}
	}
	return mentions
}

// TopKeywords counts words across all posts after stripping everything but
// Hangul and ASCII letters, and returns the n most frequent. Single-rune
// words are noise and skipped. Ties break alphabetically for stable output.
func TopKeywords(posts []models.ForumPost, n int) []models.KeywordCount {
	counts := make(map[string]int)
	for _, post := range posts {
		cleaned := wordStripRe.ReplaceAllString(fullText(post), " ")
		for _, word := range strings.Fields(cleaned) {
			if utf8.RuneCountInString(word) > 1 {
				counts[word]++
			}
		}
	}

	ranked := make([]models.KeywordCount, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, models.KeywordCount{Word: word, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
