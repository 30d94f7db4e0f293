package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/config"
	"github.com/hpungsan/cardex/internal/db"
	"github.com/hpungsan/cardex/internal/errors"
)

// Export formats
const (
	ExportJSONL = "jsonl"
	ExportHTML  = "html"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	UserID   string // required
	Path     string // optional, default: ~/.cardex/exports/<user>-<timestamp>.<format>
	Format   string // optional, "jsonl" or "html"; default from Path, else jsonl
	Category string // optional filter
	Type     string // optional filter
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export.
type ExportHeader struct {
	CardexExport  bool   `json:"_cardex_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
	UserID        string `json:"user_id"`
}

// Export writes the user's cards, oldest first, to a JSONL or HTML file.
// The file is written to a temp file and renamed into place, so an existing
// export is preserved when anything fails.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	filter, err := listFilter(input.UserID, input.Category, input.Type)
	if err != nil {
		return nil, err
	}
	format, err := exportFormat(input.Format, input.Path)
	if err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(filter.UserID, format, now)
		if err != nil {
			return nil, err
		}
	}

	// Validate default paths too: the user id is part of the file name
	if err := ValidatePath(exportPath, PathCheckWrite, cfg, exportExtensions); err != nil {
		return nil, err
	}

	cards, err := db.ListAll(ctx, database, filter)
	if err != nil {
		return nil, err
	}

	err = writeFileAtomic(exportPath, func(w io.Writer) error {
		if format == ExportHTML {
			return writeHTML(w, filter.UserID, cards, exportedAt)
		}
		return writeJSONL(ctx, w, filter.UserID, cards, exportedAt)
	})
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Format:     format,
		Count:      len(cards),
		ExportedAt: exportedAt,
	}, nil
}

// exportFormat resolves the export format from the explicit format and the
// path extension, which must agree when both are given.
func exportFormat(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	switch format {
	case "":
		if ext == ExportHTML {
			return ExportHTML, nil
		}
		return ExportJSONL, nil
	case ExportJSONL, ExportHTML:
		if path != "" && ext != format {
			return "", errors.NewInvalidRequest(fmt.Sprintf("path extension %q does not match format %q", filepath.Ext(path), format))
		}
		return format, nil
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown export format %q (want jsonl or html)", format))
	}
}

// defaultExportPath generates ~/.cardex/exports/<user>-<timestamp>.<format>.
func defaultExportPath(userID, format string, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s-%s.%s", SanitizeForFilename(userID), now.Format("2006-01-02T150405"), format)
	return filepath.Join(dir, filename), nil
}

func writeJSONL(ctx context.Context, w io.Writer, userID string, cards []card.Card, exportedAt int64) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := ExportHeader{
		CardexExport:  true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
		UserID:        userID,
	}
	if err := enc.Encode(header); err != nil {
		return errors.NewInternal(err)
	}
	for i := range cards {
		if err := ctx.Err(); err != nil {
			return errors.NewCancelled("export", err)
		}
		if err := enc.Encode(&cards[i]); err != nil {
			return errors.NewInternal(err)
		}
	}
	return nil
}

// writeFileAtomic writes path through a temp file in the same directory and
// renames it into place once write has succeeded.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := err.(*errors.CardexError); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if err := write(file); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path must not be a symlink")
	}

	// On Windows, os.Rename fails if the destination exists. Fail and keep the
	// existing file rather than delete it first.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}
