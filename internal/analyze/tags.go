package analyze

import (
	"strings"

	"github.com/hpungsan/cardex/internal/card"
)

const (
	maxWordTags   = 5
	minWordTagLen = 5
)

var tagStopWords = map[string]bool{
	"about": true, "their": true, "there": true, "these": true, "those": true,
	"which": true, "where": true, "would": true, "could": true, "should": true,
}

// ExtractTags returns up to card.MaxTags unique tags for text: every category
// keyword found in it (table order), then the first five distinct words
// longer than four characters.
func ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, card.MaxTags)
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, row := range categoryTable {
		for _, kw := range row.Keywords {
			if strings.Contains(lower, kw) {
				add(kw)
			}
		}
	}

	words := make([]string, 0, maxWordTags)
	wordSeen := make(map[string]bool)
	for _, tok := range Tokenize(lower) {
		if len(words) == maxWordTags {
			break
		}
		if card.CountChars(tok) < minWordTagLen || tagStopWords[tok] || wordSeen[tok] {
			continue
		}
		wordSeen[tok] = true
		words = append(words, tok)
	}
	for _, w := range words {
		add(w)
	}

	if len(tags) > card.MaxTags {
		tags = tags[:card.MaxTags]
	}
	return tags
}
