// Package assemble builds card drafts from segmented text and spreadsheet rows.
package assemble

import (
	"fmt"
	"strings"

	"github.com/hpungsan/cardex/internal/analyze"
	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/errors"
)

// Skipped records an item that could not be turned into a draft.
type Skipped struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Result holds the drafts built from one file in document order, plus the
// items that were skipped along the way.
type Result struct {
	Drafts  []card.Draft `json:"drafts"`
	Skipped []Skipped    `json:"skipped,omitempty"`
}

// FromText builds one draft per segment of text. Segments shorter than
// card.MinSectionChars after trimming are dropped silently.
func FromText(text, source string) Result {
	var res Result
	for i, section := range analyze.Segment(text) {
		trimmed := strings.TrimSpace(section)
		if card.CountChars(trimmed) < card.MinSectionChars {
			continue
		}
		item := fmt.Sprintf("section %d", i+1)
		res.add(item, func() (card.Draft, error) {
			return draftFromSection(trimmed, source), nil
		})
	}
	return res
}

func draftFromSection(section, source string) card.Draft {
	typ := analyze.ClassifyType(section)
	return card.Draft{
		Title:    card.Truncate(analyze.GenerateTitle(section, typ), card.MaxTitleChars),
		Content:  card.Truncate(card.CollapseWhitespace(section), card.MaxContentChars),
		Type:     typ,
		Category: analyze.ClassifyCategory(section),
		Tags:     analyze.ExtractTags(section),
		Source:   source,
	}
}

// add runs build inside a guard. A panic or an invalid draft is recorded as
// skipped and never aborts the caller's loop.
func (r *Result) add(item string, build func() (card.Draft, error)) {
	d, err := guard(build)
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		cErr := errors.NewSectionAssembly(item, err)
		r.Skipped = append(r.Skipped, Skipped{Item: item, Reason: cErr.Message, Err: cErr})
		return
	}
	r.Drafts = append(r.Drafts, d)
}

func guard(build func() (card.Draft, error)) (d card.Draft, err error) {
	defer func() {
		if p := recover(); p != nil {
			d, err = card.Draft{}, fmt.Errorf("panic: %v", p)
		}
	}()
	return build()
}
