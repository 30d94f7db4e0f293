package analyze

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSectionChars is the length above which a section is split into sentences.
const maxSectionChars = 500

// blankLineRegex matches a paragraph break: a newline, optional whitespace, a newline.
var blankLineRegex = regexp.MustCompile(`\n\s*\n`)

// Segment splits free text into candidate card sections in document order.
//
// Paragraphs are separated by blank lines. Paragraphs longer than 500
// characters are further split after sentence-ending punctuation. Sections
// are returned untrimmed; whitespace-only pieces are dropped.
func Segment(text string) []string {
	var sections []string
	for _, para := range blankLineRegex.Split(text, -1) {
		if utf8.RuneCountInString(para) > maxSectionChars {
			sections = append(sections, splitSentences(para)...)
		} else {
			sections = append(sections, para)
		}
	}

	out := sections[:0]
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitSentences splits s at every whitespace run that directly follows
// '.', '!' or '?'. The whitespace itself is discarded.
func splitSentences(s string) []string {
	var parts []string
	start := 0
	var prev rune
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) && (prev == '.' || prev == '!' || prev == '?') {
			parts = append(parts, s[start:i])
			j := i
			for j < len(s) {
				r2, size2 := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += size2
			}
			start = j
			i = j
			prev = r
			continue
		}
		prev = r
		i += size
	}
	parts = append(parts, s[start:])
	return parts
}
