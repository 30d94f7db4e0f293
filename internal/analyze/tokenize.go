package analyze

import (
	"regexp"
	"strings"
)

// nonWordRegex splits text into word tokens (letters, digits, underscore).
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Tokenize lowercases text and returns its word tokens in order.
func Tokenize(text string) []string {
	parts := nonWordRegex.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
