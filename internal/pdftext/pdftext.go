// Package pdftext extracts plain text from downloaded factsheet PDFs.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/acastel/ytm-tracker/internal/apperrors"
)

// pdfSignature is the magic prefix every PDF file starts with. Providers
// occasionally serve an HTML error page with a 200 status where a factsheet
// should be, so the signature is checked before any parsing is attempted.
var pdfSignature = []byte("%PDF")

// IsPDF reports whether content carries the PDF signature.
func IsPDF(content []byte) bool {
	return bytes.HasPrefix(content, pdfSignature)
}

// Extract returns the plain text of all pages of a PDF document, separated
// by blank lines. It returns ErrNotAPdf when the bytes are not a PDF or when
// no text can be decoded from any page.
func Extract(content []byte) (string, error) {
	if !IsPDF(content) {
		return "", fmt.Errorf("%w: missing %%PDF signature", apperrors.ErrNotAPdf)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrNotAPdf, err)
	}

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single damaged page should not sink the whole document.
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("%w: no text decoded from any page", apperrors.ErrNotAPdf)
	}
	return text.String(), nil
}
