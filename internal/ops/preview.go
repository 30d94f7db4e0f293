package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/cardex/internal/assemble"
	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/db"
	"github.com/hpungsan/cardex/internal/dedupe"
	"github.com/hpungsan/cardex/internal/extract"
	"github.com/hpungsan/cardex/internal/pipeline"
)

// PreviewItem is a draft and what an upload would do with it.
type PreviewItem struct {
	Draft    card.Draft      `json:"draft"`
	Decision dedupe.Decision `json:"decision"`
}

// PreviewOutput contains the result of the Preview operation.
type PreviewOutput struct {
	File    string             `json:"file"`
	Format  extract.Format     `json:"format"`
	Items   []PreviewItem      `json:"items"`
	Creates int                `json:"creates"`
	Merges  int                `json:"merges"`
	Skipped []assemble.Skipped `json:"skipped,omitempty"`
}

// Preview runs the pipeline and resolves every draft without writing
// anything. Drafts are checked against the store (when env.DB is set) and
// against earlier drafts of the same file.
func Preview(ctx context.Context, env *Env, input UploadInput) (*PreviewOutput, error) {
	userID, err := resolveUser(input.UserID, env.Config)
	if err != nil {
		return nil, err
	}
	if err := validateUpload(env, input); err != nil {
		return nil, err
	}

	res, err := env.Pipeline.Process(ctx, pipeline.File{
		Name:     input.FileName,
		MIMEType: input.MIMEType,
		Data:     input.Data,
	})
	if err != nil {
		return nil, err
	}
	overlay(res.Drafts, input.Category, input.Tags)

	seen := dedupe.NewMemoryIndex()
	idx := dedupe.Layered{seen}
	if env.DB != nil {
		idx = dedupe.Layered{db.HashIndex{DB: env.DB}, seen}
	}

	out := &PreviewOutput{
		File:    res.File,
		Format:  res.Format,
		Items:   make([]PreviewItem, 0, len(res.Drafts)),
		Skipped: res.Skipped,
	}
	for i, d := range res.Drafts {
		dec, err := dedupe.Resolve(ctx, d, userID, idx)
		if err != nil {
			return nil, err
		}
		if dec.Action == dedupe.ActionCreate {
			seen.Claim(userID, dec.Hash, fmt.Sprintf("draft-%d", i+1))
			out.Creates++
		} else {
			out.Merges++
		}
		out.Items = append(out.Items, PreviewItem{Draft: d, Decision: dec})
	}
	return out, nil
}
