// Package pdftext pulls plain text out of PDF files.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxChars bounds the text kept per document
const DefaultMaxChars = 200_000

// Extractor implements ports.TextExtractor
type Extractor struct {
	maxChars int
}

// NewExtractor creates an extractor that keeps at most maxChars characters
func NewExtractor(maxChars int) *Extractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Extractor{maxChars: maxChars}
}

// ExtractText returns the document text with whitespace runs collapsed.
// Malformed documents return an error, never a panic.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	return truncate(strings.Join(strings.Fields(string(raw)), " "), e.maxChars), nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
