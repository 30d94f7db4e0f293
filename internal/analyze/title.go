package analyze

import (
	"regexp"
	"strings"

	"github.com/hpungsan/cardex/internal/card"
)

// maxVerbatimTitle is the exclusive rune limit for using a first line as-is.
const maxVerbatimTitle = 100

var (
	leadingBullet = regexp.MustCompile(`^[-•*]\s*`)
	leadingQuote  = regexp.MustCompile(`^["“”„«»]\s*`)
	trailingQuote = regexp.MustCompile(`\s*["“”„«»]$`)
)

var titleStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "have": true, "will": true, "from": true,
}

// GenerateTitle derives a card title from a section.
//
// The first line is used verbatim (minus a bullet marker and wrapping quotes)
// when it is shorter than 100 characters. Otherwise the first three
// significant words are capitalized and joined. As a last resort the title
// is "<Type> Card".
func GenerateTitle(text string, t card.Type) string {
	first := text
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	first = leadingBullet.ReplaceAllString(first, "")
	first = leadingQuote.ReplaceAllString(first, "")
	first = trailingQuote.ReplaceAllString(first, "")
	if n := card.CountChars(first); n > 0 && n < maxVerbatimTitle {
		return first
	}

	var words []string
	for _, tok := range Tokenize(text) {
		if card.CountChars(tok) <= 3 || titleStopWords[tok] {
			continue
		}
		words = append(words, card.Capitalize(tok))
		if len(words) == 3 {
			break
		}
	}
	if len(words) > 0 {
		return strings.Join(words, " ")
	}

	if t == "" {
		t = card.TypeConcept
	}
	return card.Capitalize(string(t)) + " Card"
}
