// Package extract turns uploaded file bytes into plain text or raw
// spreadsheet rows. It never touches the filesystem.
package extract

import (
	"maps"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hpungsan/cardex/internal/errors"
)

// Format identifies the extractor that handles a file.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatWord  Format = "word"
	FormatXLSX  Format = "xlsx"
	FormatXLS   Format = "xls"
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatImage Format = "image"
)

// Tabular reports whether f yields rows rather than text.
func (f Format) Tabular() bool {
	return f == FormatXLSX || f == FormatXLS
}

// Sheet is one worksheet of a workbook. Rows keep their workbook positions;
// blank rows are present as empty slices.
type Sheet struct {
	Name string
	Rows [][]string
}

// extFormats maps a lowercase file extension to its extractor.
var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatWord,
	".doc":  FormatWord,
	".xlsx": FormatXLSX,
	".xls":  FormatXLS,
	".txt":  FormatText,
	".md":   FormatText,
	".json": FormatJSON,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
}

// mimeExts maps declared MIME types to the extension used when the file name has none.
var mimeExts = map[string]string{
	"text/plain":       ".txt",
	"text/markdown":    ".md",
	"application/pdf":  ".pdf",
	"application/json": ".json",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/vnd.ms-excel": ".xls",
	"image/jpeg":                ".jpg",
	"image/png":                 ".png",
	"image/gif":                 ".gif",
}

// Extension returns the lowercase extension that decides the file's format.
// The file name wins; otherwise the declared MIME type, then content sniffing.
func Extension(name, mimeType string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		if ext, ok := mimeExts[strings.ToLower(mt)]; ok {
			return ext
		}
	}
	if len(data) == 0 {
		return ""
	}
	return strings.ToLower(mimetype.Detect(data).Extension())
}

// Extensions returns every extension that has an extractor, sorted.
func Extensions() []string {
	return slices.Sorted(maps.Keys(extFormats))
}

// Detect resolves the extractor for a file.
// Returns UNSUPPORTED_FORMAT when no extractor handles the extension.
func Detect(name, mimeType string, data []byte) (Format, error) {
	ext := Extension(name, mimeType, data)
	f, ok := extFormats[ext]
	if !ok {
		return "", errors.NewUnsupportedFormat(ext)
	}
	return f, nil
}

// Text extracts the plain text of a non-tabular file.
func Text(f Format, name string, data []byte) (string, error) {
	switch f {
	case FormatPDF:
		return extractPDF(data)
	case FormatWord:
		return extractWord(data)
	case FormatText:
		return extractText(data)
	case FormatJSON:
		return extractJSON(data)
	case FormatImage:
		return describeImage(name, int64(len(data))), nil
	case FormatXLSX, FormatXLS:
		return "", errors.NewInvalidRequest("spreadsheets yield rows, not text")
	default:
		return "", errors.NewUnsupportedFormat(string(f))
	}
}

// Sheets extracts every worksheet of a workbook in workbook order.
func Sheets(f Format, data []byte) ([]Sheet, error) {
	switch f {
	case FormatXLSX:
		return extractXLSX(data)
	case FormatXLS:
		return extractXLS(data)
	default:
		return nil, errors.NewInvalidRequest("only spreadsheets yield rows")
	}
}
