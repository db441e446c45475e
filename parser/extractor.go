package parser

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

// ErrUnsupportedFormat is returned for any upload that is not .txt or .docx.
var ErrUnsupportedFormat = errors.New("unsupported file format: only .txt and .docx files are accepted")

// ExtractText converts an uploaded file into a flat string of text.
// Plain text files pass through unchanged. Word documents are unpacked
// (a .docx is a zip archive) and the text runs of word/document.xml are
// collected, one line per paragraph.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return string(data), nil
	case ".docx":
		return extractDocx(data)
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	var document *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", errors.New("word/document.xml not found in docx archive")
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open word/document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var (
		inText bool
		out    strings.Builder
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode word/document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				// paragraph boundary becomes a line boundary
				out.WriteString("\n")
			}
		}
	}

	return out.String(), nil
}
