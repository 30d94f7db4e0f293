package ops

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hpungsan/cardex/internal/config"
	"github.com/hpungsan/cardex/internal/errors"
	"github.com/hpungsan/cardex/internal/extract"
)

// ReadSource reads an upload source from disk into an UploadInput.
// The final path component must not be a symlink. Files over maxSize are
// rejected without being read in full.
func ReadSource(path string, maxSize int64) (UploadInput, error) {
	if strings.TrimSpace(path) == "" {
		return UploadInput{}, errors.NewInvalidRequest("path is required")
	}

	f, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := err.(*errors.CardexError); ok {
			return UploadInput{}, err
		}
		return UploadInput{}, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return UploadInput{}, errors.NewInternal(err)
	}
	if info.IsDir() {
		return UploadInput{}, errors.NewInvalidRequest(fmt.Sprintf("%s is a directory", path))
	}
	if maxSize > 0 && info.Size() > maxSize {
		return UploadInput{}, errors.NewFileTooLarge(maxSize, info.Size())
	}

	r := io.Reader(f)
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return UploadInput{}, errors.NewInternal(fmt.Errorf("failed to read %s: %w", path, err))
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return UploadInput{}, errors.NewFileTooLarge(maxSize, int64(len(data)))
	}

	// MIMEType stays empty: the extension decides the format.
	return UploadInput{FileName: filepath.Base(path), Data: data}, nil
}

// ReadAllowedSource is ReadSource restricted to the allowed directories and
// to extensions that have an extractor.
func ReadAllowedSource(path string, cfg *config.Config, maxSize int64) (UploadInput, error) {
	if err := ValidatePath(path, PathCheckRead, cfg, extract.Extensions()); err != nil {
		return UploadInput{}, err
	}
	return ReadSource(path, maxSize)
}
