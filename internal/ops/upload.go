package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/cardex/internal/assemble"
	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/db"
	"github.com/hpungsan/cardex/internal/dedupe"
	"github.com/hpungsan/cardex/internal/errors"
	"github.com/hpungsan/cardex/internal/extract"
	"github.com/hpungsan/cardex/internal/pipeline"
)

// allowedMIMETypes is the upload transport filter. An empty MIME type is
// accepted; the file extension then decides the format.
var allowedMIMETypes = map[string]bool{
	"text/plain":       true,
	"text/markdown":    true,
	"application/pdf":  true,
	"application/json": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
	"image/jpeg":                true,
	"image/png":                 true,
	"image/gif":                 true,
}

// UploadInput contains parameters for the Upload operation.
type UploadInput struct {
	UserID   string // default: config default_user
	FileName string // required, original name
	MIMEType string // optional
	Data     []byte

	// Category replaces the classified category of every card when set.
	Category string
	// Tags replace the generated tags of every card when set.
	Tags []string
}

// FileInfo describes the stored copy of an uploaded file.
type FileInfo struct {
	Filename     string         `json:"filename"`
	OriginalName string         `json:"original_name"`
	Size         int64          `json:"size"`
	Format       extract.Format `json:"format"`
}

// ItemError is a draft that could not be persisted.
type ItemError struct {
	Title string           `json:"title"`
	Code  errors.ErrorCode `json:"code"`
	Error string           `json:"error"`
}

// UploadOutput contains the result of the Upload operation.
type UploadOutput struct {
	Created int `json:"created"`
	Updated int `json:"updated"`

	// Cards lists created cards first, then updated ones.
	Cards   []card.Summary     `json:"cards"`
	Skipped []assemble.Skipped `json:"skipped,omitempty"`
	Failed  []ItemError        `json:"failed,omitempty"`
	File    FileInfo           `json:"file"`
}

// Upload runs one file through the pipeline and persists its drafts.
// A draft whose content hash already exists for the user is merged into the
// existing card: the file is added to its attachments and its source.
// Per-draft persistence failures are reported in Failed; only whole-file
// failures are returned as errors, in which case the stored copy is removed.
func Upload(ctx context.Context, env *Env, input UploadInput) (*UploadOutput, error) {
	userID, err := resolveUser(input.UserID, env.Config)
	if err != nil {
		return nil, err
	}
	p, err := prepare(ctx, env, input)
	if err != nil {
		return nil, err
	}
	return persist(ctx, env, userID, p)
}

// prepared is an uploaded file that has been stored and extracted but not persisted.
type prepared struct {
	result     *pipeline.Result
	attachment card.Attachment
	format     extract.Format
}

// prepare validates the input, stores a copy of the file and runs the pipeline.
func prepare(ctx context.Context, env *Env, input UploadInput) (*prepared, error) {
	if err := validateUpload(env, input); err != nil {
		return nil, err
	}

	att, err := storeUpload(env.UploadsDir, input)
	if err != nil {
		return nil, err
	}

	res, err := env.Pipeline.Process(ctx, pipeline.File{
		Name:     input.FileName,
		MIMEType: input.MIMEType,
		Data:     input.Data,
	})
	if err != nil {
		if rmErr := os.Remove(att.Path); rmErr != nil && !os.IsNotExist(rmErr) {
			env.logger().Warn("failed to remove stored upload", zap.String("path", att.Path), zap.Error(rmErr))
		}
		return nil, err
	}

	overlay(res.Drafts, input.Category, input.Tags)
	return &prepared{result: res, attachment: att, format: res.Format}, nil
}

func validateUpload(env *Env, input UploadInput) error {
	if strings.TrimSpace(input.FileName) == "" {
		return errors.NewInvalidRequest("file name is required")
	}
	if input.MIMEType != "" {
		mt, _, err := mime.ParseMediaType(input.MIMEType)
		if err != nil || !allowedMIMETypes[strings.ToLower(mt)] {
			return errors.NewInvalidRequest(fmt.Sprintf("invalid file type: %s", input.MIMEType))
		}
	}
	if limit := env.Pipeline.MaxFileSize(); int64(len(input.Data)) > limit {
		return errors.NewFileTooLarge(limit, int64(len(input.Data)))
	}
	return nil
}

// storeUpload writes the file to dir as file-<uuid><ext>.
func storeUpload(dir string, input UploadInput) (card.Attachment, error) {
	if dir == "" {
		return card.Attachment{}, errors.NewInternal(fmt.Errorf("uploads directory not configured"))
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return card.Attachment{}, errors.NewInternal(fmt.Errorf("failed to create uploads directory: %w", err))
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	name := "file-" + uuid.NewString() + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, input.Data, 0600); err != nil {
		return card.Attachment{}, errors.NewInternal(fmt.Errorf("failed to store upload: %w", err))
	}

	mimeType := input.MIMEType
	if mimeType == "" {
		mimeType = mimetype.Detect(input.Data).String()
	}
	return card.Attachment{
		Filename:     name,
		OriginalName: input.FileName,
		MIMEType:     mimeType,
		Size:         int64(len(input.Data)),
		Path:         path,
	}, nil
}

// overlay applies the user-supplied category and tags to every draft.
func overlay(drafts []card.Draft, category string, tags []string) {
	category = strings.TrimSpace(category)
	var userTags []string
	for _, t := range tags {
		userTags = append(userTags, strings.TrimSpace(t))
	}
	userTags = card.UniqueTags(userTags, card.MaxTags)

	for i := range drafts {
		if category != "" {
			drafts[i].Category = category
		}
		if len(userTags) > 0 {
			drafts[i].Tags = append([]string(nil), userTags...)
		}
	}
}

// persist stores the drafts of one prepared file, in order.
func persist(ctx context.Context, env *Env, userID string, p *prepared) (*UploadOutput, error) {
	var created, updated []card.Summary
	out := &UploadOutput{
		Skipped: p.result.Skipped,
		File: FileInfo{
			Filename:     p.attachment.Filename,
			OriginalName: p.attachment.OriginalName,
			Size:         p.attachment.Size,
			Format:       p.format,
		},
	}

	for _, d := range p.result.Drafts {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelled("upload", err)
		}
		c, merged, err := saveDraft(ctx, env.DB, userID, d, p.attachment)
		if err != nil {
			env.logger().Warn("draft not saved",
				zap.String("file", p.attachment.OriginalName),
				zap.String("title", d.Title),
				zap.Error(err),
			)
			out.Failed = append(out.Failed, ItemError{Title: d.Title, Code: errors.CodeOf(err), Error: err.Error()})
			continue
		}
		if merged {
			updated = append(updated, card.Summarize(c))
		} else {
			created = append(created, card.Summarize(c))
		}
	}

	out.Created = len(created)
	out.Updated = len(updated)
	out.Cards = append(append(make([]card.Summary, 0, len(created)+len(updated)), created...), updated...)

	env.logger().Info("upload persisted",
		zap.String("file", p.attachment.OriginalName),
		zap.String("user", userID),
		zap.Int("created", out.Created),
		zap.Int("updated", out.Updated),
		zap.Int("failed", len(out.Failed)),
	)
	return out, nil
}

// saveDraft creates a card for d or merges att into the user's existing card
// with the same content hash. Reports whether it merged.
func saveDraft(ctx context.Context, database *sql.DB, userID string, d card.Draft, att card.Attachment) (*card.Card, bool, error) {
	dec, err := dedupe.Resolve(ctx, d, userID, db.HashIndex{DB: database})
	if err != nil {
		return nil, false, err
	}

	if dec.Action == dedupe.ActionCreate {
		c, err := newCard(userID, d, dec.Hash, att)
		if err != nil {
			return nil, false, err
		}
		err = db.Insert(ctx, database, c)
		if err == nil {
			return c, false, nil
		}
		if err != db.ErrUniqueConstraint {
			return nil, false, err
		}
		// Another upload created the same card first.
		id, found, err := db.FindIDByHash(ctx, database, userID, dec.Hash)
		if err != nil {
			return nil, false, err
		}
		if !found {
			return nil, false, errors.NewInternal(fmt.Errorf("card with hash %s vanished after conflict", dec.Hash))
		}
		dec.ExistingID = id
	}

	existing, err := db.GetByID(ctx, database, userID, dec.ExistingID)
	if err != nil {
		return nil, false, err
	}
	if !hasAttachment(existing.Attachments, att.Filename) {
		existing.Attachments = append(existing.Attachments, att)
	}
	existing.Source = dedupe.MergeSource(existing.Source, att.OriginalName)
	if err := db.UpdateMerge(ctx, database, existing); err != nil {
		return nil, false, err
	}
	return existing, true, nil
}

func newCard(userID string, d card.Draft, hash string, att card.Attachment) (*card.Card, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &card.Card{
		ID:          id,
		UserID:      userID,
		Title:       d.Title,
		Content:     d.Content,
		ContentHash: hash,
		Type:        d.Type,
		Category:    d.Category,
		Tags:        tags,
		Source:      d.Source,
		Metadata:    d.Metadata,
		Attachments: []card.Attachment{att},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// hasAttachment reports whether a stored file is already attached; a file
// whose drafts repeat would otherwise attach itself twice.
func hasAttachment(atts []card.Attachment, filename string) bool {
	for _, a := range atts {
		if a.Filename == filename {
			return true
		}
	}
	return false
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
