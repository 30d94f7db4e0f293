package assemble

import (
	"fmt"
	"strings"

	"github.com/hpungsan/cardex/internal/analyze"
	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/extract"
)

// maxVerbatimCellTitle is the exclusive rune limit for using a cell as the title.
const maxVerbatimCellTitle = 100

// contentColumn is the zero-based column preferred for row content.
const contentColumn = 1

// FromSheets builds one draft per non-blank data row. The first row of each
// sheet is its schema. Rows bypass the segmenter and classifier: every
// draft is a concept in the Data category.
func FromSheets(sheets []extract.Sheet) Result {
	var res Result
	for _, sheet := range sheets {
		if len(sheet.Rows) == 0 {
			continue
		}
		schema := buildSchema(sheet.Rows[0])
		for i := 1; i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			rowNum := i + 1
			if !hasSchemaContent(row, len(schema)) {
				continue
			}
			item := fmt.Sprintf("sheet %q row %d", sheet.Name, rowNum)
			res.add(item, func() (card.Draft, error) {
				return draftFromRow(sheet.Name, schema, row, rowNum), nil
			})
		}
	}
	return res
}

// buildSchema names every header column, using Column_<n> for blank headers.
func buildSchema(header []string) []string {
	schema := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			schema[i] = placeholderColumn(i)
		} else {
			schema[i] = h
		}
	}
	return schema
}

func placeholderColumn(i int) string {
	return fmt.Sprintf("Column_%d", i+1)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func hasSchemaContent(row []string, columns int) bool {
	for i := 0; i < columns; i++ {
		if strings.TrimSpace(cell(row, i)) != "" {
			return true
		}
	}
	return false
}

// firstNonBlank returns the first trimmed non-blank cell of row.
func firstNonBlank(row []string) string {
	for _, c := range row {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return ""
}

func draftFromRow(sheet string, schema, row []string, rowNum int) card.Draft {
	data := make(map[string]string, len(schema))
	for i, name := range schema {
		data[name] = cell(row, i)
	}

	content := strings.TrimSpace(cell(row, contentColumn))
	if content == "" {
		content = firstNonBlank(row)
	}
	if card.CountChars(content) > card.MaxRowContentChars {
		content = card.Truncate(content, card.MaxRowContentChars) + card.TruncationMarker
	}

	title := firstNonBlank(row)
	switch {
	case title == "":
		title = fmt.Sprintf("%s - Row %d", sheet, rowNum)
	case card.CountChars(title) >= maxVerbatimCellTitle:
		title = analyze.GenerateTitle(title, card.TypeConcept)
	}

	tags := make([]string, 0, len(schema)+2)
	for i, name := range schema {
		if name != placeholderColumn(i) {
			tags = append(tags, card.Slugify(name))
		}
	}
	tags = append(tags, strings.ToLower(sheet), fmt.Sprintf("row-%d", rowNum))

	return card.Draft{
		Title:    card.Truncate(title, card.MaxTitleChars),
		Content:  content,
		Type:     card.TypeConcept,
		Category: card.DataCategory,
		Tags:     card.UniqueTags(tags, card.MaxTags),
		Source:   "Excel: " + sheet,
		Metadata: &card.RowMetadata{
			Row:     rowNum,
			Sheet:   sheet,
			Columns: len(schema),
			Schema:  schema,
			Data:    data,
		},
	}
}
