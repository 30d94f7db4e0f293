package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/cardex/internal/errors"
)

const wordDocumentPart = "word/document.xml"

// extractWord reads the paragraphs of word/document.xml. Each non-empty
// paragraph becomes its own block, separated by a blank line.
func extractWord(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionFailed(string(FormatWord), fmt.Errorf("open zip: %w", err))
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == wordDocumentPart {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.NewExtractionFailed(string(FormatWord), fmt.Errorf("%s not found in archive", wordDocumentPart))
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", errors.NewExtractionFailed(string(FormatWord), fmt.Errorf("open document.xml: %w", err))
	}
	defer rc.Close()

	paragraphs, err := wordParagraphs(rc)
	if err != nil {
		return "", errors.NewExtractionFailed(string(FormatWord), err)
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// wordParagraphs collects the text of every w:p element. Tabs and line
// breaks inside a paragraph are kept as whitespace.
func wordParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					inParagraph = false
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			}
		}
	}
	return paragraphs, nil
}
