package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/cardex/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractText passes UTF-8 text through, minus a leading byte order mark.
func extractText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.NewExtractionFailed(string(FormatText), fmt.Errorf("file is not valid UTF-8"))
	}
	return string(data), nil
}

// extractJSON validates the document and re-indents it with two spaces.
func extractJSON(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", errors.NewExtractionFailed(string(FormatJSON), err)
	}
	return buf.String(), nil
}

const imageDescription = "This is an image file that may contain visual information, charts, diagrams, " +
	"or other visual content that could be relevant for learning and reference purposes."

// describeImage builds the descriptive text for an image. Pixels are never decoded.
func describeImage(name string, size int64) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return fmt.Sprintf("Image: %s\nFile Type: %s\nFile Size: %.2f KB\nDescription: %s",
		strings.TrimSuffix(base, ext),
		strings.ToUpper(strings.TrimPrefix(ext, ".")),
		float64(size)/1024,
		imageDescription,
	)
}
