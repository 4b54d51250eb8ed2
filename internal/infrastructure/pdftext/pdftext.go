// Package pdftext extracts plain text from PDF documents with
// github.com/ledongthuc/pdf.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"stationery/pkg/logger"
)

// Extractor implements importer.TextSource.
type Extractor struct {
	log *logger.Logger
}

// New creates an extractor.
func New(log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{log: log.WithComponent("pdftext")}
}

// IsPDF checks the %PDF- magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Text returns the text of every page joined by newlines. Pages without
// text or that fail to decode are skipped.
func (e *Extractor) Text(ctx context.Context, data []byte) (string, error) {
	if !IsPDF(data) {
		return "", fmt.Errorf("not a PDF document")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.WithContext(ctx).Debugw("skipping unreadable page", "page", i, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}

	e.log.WithContext(ctx).Debugw("pdf text extracted", "pages", pages, "chars", sb.Len())
	return sb.String(), nil
}
