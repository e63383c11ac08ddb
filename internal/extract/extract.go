// Package extract turns uploaded PDF bytes into plain text for the
// evaluation pipeline. No OCR fallback: image-only scans are rejected.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError reports a PDF whose text could not be extracted: the file
// is not a valid PDF, is encrypted, or carries no extractable text layer.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extracting pdf text: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extracting pdf text: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Text extracts the plain text of every page in document order, pages
// separated by a newline. Pure transform, the input stays in memory.
func Text(data []byte) (text string, err error) {
	// The pdf parser panics on some malformed documents instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Reason: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Reason: "not a readable pdf", Err: err}
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	text = builder.String()
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Reason: "document has no extractable text layer"}
	}

	return text, nil
}
