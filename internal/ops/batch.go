package ops

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/cardex/internal/errors"
)

// DefaultMaxBatchFiles applies when the config leaves max_batch_files unset.
const DefaultMaxBatchFiles = 5

// BatchInput contains parameters for the UploadBatch operation.
// Category and Tags apply to every file.
type BatchInput struct {
	UserID   string
	Files    []UploadInput
	Category string
	Tags     []string
}

// BatchFileResult is the outcome for one file of a batch.
type BatchFileResult struct {
	File    string        `json:"file"`
	Success bool          `json:"success"`
	Result  *UploadOutput `json:"result,omitempty"`

	Code  errors.ErrorCode `json:"code,omitempty"`
	Error string           `json:"error,omitempty"`
}

// BatchOutput contains the result of the UploadBatch operation, one entry per
// input file in input order.
type BatchOutput struct {
	Results   []BatchFileResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// UploadBatch uploads several files. Extraction runs with at most
// batch_concurrency files in flight; persistence runs afterwards in input
// order, so duplicate resolution for a user is never concurrent.
// A failing file does not affect the others.
func UploadBatch(ctx context.Context, env *Env, input BatchInput) (*BatchOutput, error) {
	userID, err := resolveUser(input.UserID, env.Config)
	if err != nil {
		return nil, err
	}

	maxFiles, concurrency := DefaultMaxBatchFiles, 1
	if env.Config != nil {
		if env.Config.MaxBatchFiles > 0 {
			maxFiles = env.Config.MaxBatchFiles
		}
		if env.Config.BatchConcurrency > 0 {
			concurrency = env.Config.BatchConcurrency
		}
	}
	if len(input.Files) == 0 {
		return nil, errors.NewInvalidRequest("no files uploaded")
	}
	if len(input.Files) > maxFiles {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("too many files: %d (max %d)", len(input.Files), maxFiles))
	}

	preps := make([]*prepared, len(input.Files))
	prepErrs := make([]error, len(input.Files))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, f := range input.Files {
		if input.Category != "" {
			f.Category = input.Category
		}
		if len(input.Tags) > 0 {
			f.Tags = input.Tags
		}
		g.Go(func() error {
			preps[i], prepErrs[i] = prepare(ctx, env, f)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("batch upload", err)
	}

	out := &BatchOutput{Results: make([]BatchFileResult, len(input.Files))}
	for i, f := range input.Files {
		res := BatchFileResult{File: f.FileName}
		err := prepErrs[i]
		if err == nil {
			res.Result, err = persist(ctx, env, userID, preps[i])
		}
		if err != nil {
			res.Code = errors.CodeOf(err)
			res.Error = err.Error()
			out.Failed++
			env.logger().Warn("batch file failed", zap.String("file", f.FileName), zap.Error(err))
		} else {
			res.Success = true
			out.Succeeded++
		}
		out.Results[i] = res
	}
	return out, nil
}
