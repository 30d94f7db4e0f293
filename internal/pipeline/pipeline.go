// Package pipeline turns one uploaded file into an ordered list of card drafts.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/hpungsan/cardex/internal/assemble"
	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/errors"
	"github.com/hpungsan/cardex/internal/extract"
)

// DefaultMaxFileSize is the upload limit applied when Config leaves it unset.
const DefaultMaxFileSize int64 = 10 << 20

// Config controls pipeline limits.
type Config struct {
	MaxFileSize int64
}

// File is one uploaded file. Name is the original file name; it becomes the
// source of every text draft.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Content is what a format extractor produced: free text, or drafts built
// directly from spreadsheet rows.
type Content interface {
	isContent()
}

// TextContent is free text that still needs segmenting and classifying.
type TextContent struct {
	Text string
}

// RowsContent holds spreadsheet drafts, which bypass the segmenter and classifier.
type RowsContent struct {
	Drafts  []card.Draft
	Skipped []assemble.Skipped
}

func (TextContent) isContent() {}
func (RowsContent) isContent() {}

// Result is the outcome of processing one file.
type Result struct {
	File    string             `json:"file"`
	Format  extract.Format     `json:"format"`
	Drafts  []card.Draft       `json:"drafts"`
	Skipped []assemble.Skipped `json:"skipped,omitempty"`
}

// Pipeline runs extraction and card assembly. It holds no per-file state and
// is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for the pipeline.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l.Named("pipeline")
		}
	}
}

// New creates a Pipeline.
func New(cfg Config, opts ...Option) *Pipeline {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	p := &Pipeline{cfg: cfg, logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// MaxFileSize returns the effective size limit in bytes.
func (p *Pipeline) MaxFileSize() int64 {
	return p.cfg.MaxFileSize
}

// Extract detects the file's format and runs its extractor.
func (p *Pipeline) Extract(ctx context.Context, f File) (Content, extract.Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	format, err := extract.Detect(f.Name, f.MIMEType, f.Data)
	if err != nil {
		return nil, "", err
	}

	if format.Tabular() {
		sheets, err := extract.Sheets(format, f.Data)
		if err != nil {
			return nil, format, err
		}
		res := assemble.FromSheets(sheets)
		return RowsContent{Drafts: res.Drafts, Skipped: res.Skipped}, format, nil
	}

	text, err := extract.Text(format, f.Name, f.Data)
	if err != nil {
		return nil, format, err
	}
	return TextContent{Text: text}, format, nil
}

// Process runs the whole pipeline on f. It fails with FILE_TOO_LARGE,
// UNSUPPORTED_FORMAT, EXTRACTION_FAILED or NO_CONTENT_EXTRACTED; items that
// fail individually are reported in Result.Skipped instead.
func (p *Pipeline) Process(ctx context.Context, f File) (*Result, error) {
	if size := int64(len(f.Data)); size > p.cfg.MaxFileSize {
		return nil, errors.NewFileTooLarge(p.cfg.MaxFileSize, size)
	}

	content, format, err := p.Extract(ctx, f)
	if err != nil {
		p.logger.Debug("extraction failed", zap.String("file", f.Name), zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{File: f.Name, Format: format}
	switch c := content.(type) {
	case TextContent:
		built := assemble.FromText(c.Text, f.Name)
		res.Drafts, res.Skipped = built.Drafts, built.Skipped
	case RowsContent:
		res.Drafts, res.Skipped = c.Drafts, c.Skipped
	}

	for _, s := range res.Skipped {
		p.logger.Warn("item skipped",
			zap.String("file", f.Name),
			zap.String("item", s.Item),
			zap.String("reason", s.Reason),
		)
	}
	p.logger.Info("file processed",
		zap.String("file", f.Name),
		zap.String("format", string(format)),
		zap.Int("drafts", len(res.Drafts)),
		zap.Int("skipped", len(res.Skipped)),
	)

	if len(res.Drafts) == 0 {
		return nil, errors.NewNoContentExtracted(f.Name)
	}
	return res, nil
}
