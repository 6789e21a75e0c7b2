package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxPages = 20

var ErrNotPDF = errors.New("not a pdf document")

// Extract returns the plain text of the first pages of a PDF document.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrNotPDF, rec)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	var sb strings.Builder
	n := doc.NumPage()
	if n > maxPages {
		n = maxPages
	}
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(t)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// ExtractBytes is Extract over an in-memory document.
func ExtractBytes(b []byte) (string, error) {
	return Extract(bytes.NewReader(b), int64(len(b)))
}
