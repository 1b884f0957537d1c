// Package resume turns uploaded resume files into plain text and computes the simple
// text statistics shown next to the feedback.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyDocument   = errors.New("document contains no text")
)

const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDoc  = "application/msword"
)

// Kind normalises a mime type or file name to one of the Mime constants.
func Kind(fileType string) string {
	ft := strings.ToLower(strings.TrimSpace(fileType))
	if i := strings.Index(ft, ";"); i >= 0 {
		ft = strings.TrimSpace(ft[:i])
	}
	switch ft {
	case MimeText, MimePDF, MimeDocx, MimeDoc:
		return ft
	}
	switch filepath.Ext(ft) {
	case ".txt":
		return MimeText
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDocx
	case ".doc":
		return MimeDoc
	}
	return ft
}

// ExtractText returns the plain text of a resume file. fileType is a mime type or a
// file name.
func ExtractText(fileType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch kind := Kind(fileType); kind {
	case MimeText:
		text = string(data)
	case MimePDF:
		text, err = extractPDFText(bytes.NewReader(data))
	case MimeDocx:
		text, err = extractDocxText(bytes.NewReader(data))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, fileType)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPDFText(r *bytes.Reader) (string, error) {
	pdfReader, err := pdf.NewReader(r, r.Size())
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		textBuilder.WriteString(text)
		textBuilder.WriteByte('\n')
	}
	return textBuilder.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(r io.ReaderAt) (string, error) {
	size := int64(0)
	if br, ok := r.(*bytes.Reader); ok {
		size = br.Size()
	}
	doc, err := docx.ReadDocxFromMemory(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return unescapeXML(content), nil
}

var xmlEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}
