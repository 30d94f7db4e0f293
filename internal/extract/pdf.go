package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/hpungsan/cardex/internal/errors"
)

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", errors.NewExtractionFailed(string(FormatPDF), fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionFailed(string(FormatPDF), fmt.Errorf("pdf reader: %w", err))
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", errors.NewExtractionFailed(string(FormatPDF), fmt.Errorf("pdf plaintext: %w", err))
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", errors.NewExtractionFailed(string(FormatPDF), fmt.Errorf("pdf read: %w", err))
	}
	return string(b), nil
}
