// Package ingest extracts plain text from uploaded reference files. The
// text feeds the prompt builder's material context; formatting beyond
// paragraph and tab breaks is discarded on purpose.
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile marks an upload with an extension we cannot read.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ExtractText returns the plain text of an uploaded file, keyed on its
// extension. Text files pass through as-is; .docx files are unpacked.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return string(data), nil
	case ".docx":
		text, err := extractDocx(data)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", filename, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedFile)
	}
}

// extractDocx pulls the text runs out of word/document.xml. Paragraph ends
// become newlines, explicit tabs and line breaks are kept.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("docx has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	var sb strings.Builder
	dec := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document part: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
