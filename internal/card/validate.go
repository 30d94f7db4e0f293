package card

import (
	"fmt"
	"strings"
)

// Validate reports whether a draft is complete enough to leave the pipeline.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is empty")
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("content is empty")
	}
	if n := CountChars(d.Title); n > MaxTitleChars {
		return fmt.Errorf("title too long: %d chars (max %d)", n, MaxTitleChars)
	}
	if n := CountChars(d.Content); n > MaxContentChars {
		return fmt.Errorf("content too long: %d chars (max %d)", n, MaxContentChars)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("unknown card type %q", d.Type)
	}
	if strings.TrimSpace(d.Category) == "" {
		return fmt.Errorf("category is empty")
	}
	if len(d.Tags) > MaxTags {
		return fmt.Errorf("too many tags: %d (max %d)", len(d.Tags), MaxTags)
	}
	seen := make(map[string]bool, len(d.Tags))
	for _, t := range d.Tags {
		if seen[t] {
			return fmt.Errorf("duplicate tag %q", t)
		}
		seen[t] = true
	}
	if m := d.Metadata; m != nil && len(m.Schema) != m.Columns {
		return fmt.Errorf("schema has %d columns, metadata says %d", len(m.Schema), m.Columns)
	}
	return nil
}
