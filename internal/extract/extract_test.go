package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

// newTestPDF generates a well-formed PDF with one page per provided text,
// avoiding brittle handcrafted bytes.
func newTestPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, page := range pages {
		doc.AddPage()
		doc.Cell(40, 10, page)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("generating test pdf: %v", err)
	}
	return buf.Bytes()
}

func TestTextExtractsAllPagesInOrder(t *testing.T) {
	data := newTestPDF(t, "First page content", "Second page content")

	text, err := Text(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := strings.Index(text, "First page content")
	second := strings.Index(text, "Second page content")
	if first == -1 || second == -1 {
		t.Fatalf("missing page content in extracted text: %q", text)
	}
	if first > second {
		t.Fatalf("pages out of order in extracted text: %q", text)
	}
}

func TestTextRejectsNonPDF(t *testing.T) {
	_, err := Text([]byte("this is not a pdf"))

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestTextRejectsEmptyInput(t *testing.T) {
	_, err := Text(nil)

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}
