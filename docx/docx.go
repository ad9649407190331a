// Package docx reads and writes minimal Office Open XML word documents.
//
// Reading extracts paragraph text from word/document.xml inside the .docx
// zip container. Writing produces a document with a title heading, a
// generation date line, and body paragraphs. Only the features needed for
// script packaging are implemented.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// document mirrors the subset of the WordprocessingML schema we consume.
type document struct {
	XMLName xml.Name `xml:"document"`
	Body    struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []string `xml:"t"`
}

// ReadFile extracts the paragraph text from a .docx file.
// Each paragraph becomes one element of the returned slice; empty paragraphs
// are dropped.
func ReadFile(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		return extractParagraphs(data)
	}

	return nil, fmt.Errorf("docx %s: missing word/document.xml", path)
}

// ReadText is like ReadFile but joins the paragraphs with newlines.
func ReadText(path string) (string, error) {
	paragraphs, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

func extractParagraphs(data []byte) ([]string, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document.xml: %w", err)
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Text {
				sb.WriteString(t)
			}
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}

// Script holds the content rendered into a generated document.
type Script struct {
	// Title becomes the heading paragraph.
	Title string
	// GeneratedAt is printed under the title. Zero means time.Now().
	GeneratedAt time.Time
	// Body is the script text; blank-line separated blocks become paragraphs.
	Body string
}

// WriteFile renders the script to a .docx file at path.
func WriteFile(path string, s Script) error {
	data, err := Render(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Render produces the .docx file contents for the script.
func Render(s Script) ([]byte, error) {
	generatedAt := s.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	var body strings.Builder
	body.WriteString(xml.Header)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeHeading(&body, s.Title)
	writeParagraph(&body, "Generated on "+generatedAt.Format("January 2, 2006"), true)

	for _, block := range strings.Split(s.Body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		for _, line := range strings.Split(block, "\n") {
			writeParagraph(&body, line, false)
		}
		writeParagraph(&body, "", false)
	}

	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", body.String()},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeading(sb *strings.Builder, text string) {
	sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="48"/></w:rPr><w:t xml:space="preserve">`)
	xml.EscapeText(sb, []byte(text))
	sb.WriteString(`</w:t></w:r></w:p>`)
}

func writeParagraph(sb *strings.Builder, text string, italic bool) {
	sb.WriteString(`<w:p><w:r>`)
	if italic {
		sb.WriteString(`<w:rPr><w:i/></w:rPr>`)
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	xml.EscapeText(sb, []byte(text))
	sb.WriteString(`</w:t></w:r></w:p>`)
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
