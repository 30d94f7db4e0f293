package card

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// ContentHash computes the per-user duplicate key of a card:
// sha256 over lower(trim(title)) + "-" + lower(trim(content)), hex encoded.
// Internal whitespace is left untouched, so "a  b" and "a b" differ.
func ContentHash(title, content string) string {
	key := strings.ToLower(strings.TrimSpace(title)) + "-" + strings.ToLower(strings.TrimSpace(content))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// CollapseWhitespace trims s and collapses internal whitespace runs to a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CountChars returns the character count as runes (not bytes).
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// UniqueTags drops empty and duplicate tags, keeping first-seen order, and caps the result at max.
func UniqueTags(tags []string, max int) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == max {
			break
		}
	}
	return out
}

// Slugify lowercases s and replaces whitespace runs with hyphens.
func Slugify(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(s), "-")
}

// ParseTags splits a comma-separated string into trimmed, non-empty tags.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
