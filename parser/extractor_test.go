package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextPlainText(t *testing.T) {
	text, err := ExtractText("questions.txt", []byte("Q | A | B | C | D | 1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Q | A | B | C | D | 1\n" {
		t.Errorf("plain text should pass through unchanged, got %q", text)
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	for _, name := range []string{"questions.pdf", "questions.doc", "questions", "questions.txt.csv"} {
		_, err := ExtractText(name, []byte("data"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestExtractTextCaseInsensitiveExtension(t *testing.T) {
	if _, err := ExtractText("QUESTIONS.TXT", []byte("x")); err != nil {
		t.Errorf("uppercase extension should be accepted, got %v", err)
	}
}

func TestExtractTextDocx(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>1. Capital of France</w:t></w:r></w:p>
    <w:p><w:r><w:t>a) </w:t></w:r><w:r><w:t>Paris</w:t></w:r></w:p>
    <w:p><w:r><w:t>b) Rome</w:t></w:r></w:p>
    <w:p><w:r><w:t>c) Berlin</w:t></w:r></w:p>
    <w:p><w:r><w:t>d) Madrid</w:t></w:r></w:p>
    <w:p><w:r><w:t>Answer: a</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractText("upload.docx", buildDocx(t, documentXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	want := []string{"1. Capital of France", "a) Paris", "b) Rome", "c) Berlin", "d) Madrid", "Answer: a"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	// Extracted document parses end to end.
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 parsed question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != 0 {
		t.Errorf("expected correct answer 0, got %d", questions[0].CorrectAnswer)
	}
}

func TestExtractTextDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	if _, err := ExtractText("upload.docx", buf.Bytes()); err == nil {
		t.Error("expected an error for a docx without word/document.xml")
	}
}

func TestExtractTextDocxCorrupt(t *testing.T) {
	if _, err := ExtractText("upload.docx", []byte("not a zip archive")); err == nil {
		t.Error("expected an error for a corrupt docx")
	}
}
