package services

import (
	"bytes"
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nguyenthenguyen/docx"
)

// DocumentParserService turns an uploaded resume into plain text. Extraction
// is best effort: an unreadable document yields an empty string.
type DocumentParserService interface {
	ExtractText(filePath string) string
}

type documentParserService struct {
	markup *bluemonday.Policy
}

func NewDocumentParserService() DocumentParserService {
	return &documentParserService{
		markup: bluemonday.StrictPolicy(),
	}
}

func (p *documentParserService) ExtractText(filePath string) string {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".docx":
		text, err = p.extractDocx(filePath)
	default:
		text, err = extractPDF(filePath)
	}

	if err != nil {
		log.Printf("⚠️  Failed to extract text from %s: %v", filepath.Base(filePath), err)
		return ""
	}

	return text
}

func extractPDF(filePath string) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
	}

	return textBuilder.String(), nil
}

func (p *documentParserService) extractDocx(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document XML.
	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "</w:p>\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")

	return html.UnescapeString(p.markup.Sanitize(content)), nil
}
