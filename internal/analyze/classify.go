package analyze

import (
	"regexp"
	"strings"

	"github.com/hpungsan/cardex/internal/card"
)

// Pattern bonuses for ClassifyType.
const (
	checklistBonus = 2
	quoteBonus     = 3
	actionBonus    = 2
)

var (
	bulletPattern = regexp.MustCompile(`(?m)^\s*[-•*]\s+`)
	quotePattern  = regexp.MustCompile(`["“”„«»].*["“”„«»]`)
	actionPattern = regexp.MustCompile(`(?i)\b(step|process|procedure)\b`)
)

// Score is one row of a classifier score table.
type Score struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// TypeScores returns the per-type scores for text in declaration order.
// Each keyword counts once no matter how often it occurs.
func TypeScores(text string) []Score {
	lower := strings.ToLower(text)
	scores := make([]Score, len(typeTable))
	for i, row := range typeTable {
		scores[i].Label = string(row.Type)
		for _, kw := range row.Keywords {
			if strings.Contains(lower, kw) {
				scores[i].Score++
			}
		}
	}

	add := func(t card.Type, n int) {
		for i := range scores {
			if scores[i].Label == string(t) {
				scores[i].Score += n
				return
			}
		}
	}
	if bulletPattern.MatchString(text) {
		add(card.TypeChecklist, checklistBonus)
	}
	if quotePattern.MatchString(text) {
		add(card.TypeQuote, quoteBonus)
	}
	if actionPattern.MatchString(text) {
		add(card.TypeAction, actionBonus)
	}
	return scores
}

// ClassifyType picks the card type with the strictly highest score.
// Ties go to the earlier type; all-zero scores mean concept.
func ClassifyType(text string) card.Type {
	best, ok := pickBest(TypeScores(text))
	if !ok {
		return card.TypeConcept
	}
	return card.Type(best)
}

// CategoryScores returns the per-category scores for text in table order.
// A keyword contributes its total number of non-overlapping occurrences.
func CategoryScores(text string) []Score {
	lower := strings.ToLower(text)
	scores := make([]Score, len(categoryTable))
	for i, row := range categoryTable {
		scores[i].Label = row.Category
		for _, kw := range row.Keywords {
			scores[i].Score += strings.Count(lower, kw)
		}
	}
	return scores
}

// ClassifyCategory returns the best-scoring category, falling back to the
// context rules and finally to card.DefaultCategory.
func ClassifyCategory(text string) string {
	if best, ok := pickBest(CategoryScores(text)); ok {
		return best
	}
	return inferCategory(text)
}

// inferCategory applies contextRules in order and returns the first hit.
func inferCategory(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range contextRules {
		for _, term := range rule.Terms {
			if strings.Contains(lower, term) {
				return rule.Category
			}
		}
	}
	return card.DefaultCategory
}

// pickBest returns the first label holding the maximum score.
// ok is false when every score is zero.
func pickBest(scores []Score) (string, bool) {
	bestIdx := -1
	for i, s := range scores {
		if s.Score <= 0 {
			continue
		}
		if bestIdx < 0 || s.Score > scores[bestIdx].Score {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	return scores[bestIdx].Label, true
}
