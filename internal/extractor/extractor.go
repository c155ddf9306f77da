// Package extractor turns PDF files into plain text for the statement and
// requisites parsers.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"fjacquet/statement-import/internal/logging"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text from the PDF at path. Swappable for tests.
type PDFExtractor interface {
	ExtractText(pdfPath string) (string, error)
}

// RealPDFExtractor reads PDFs with ledongthuc/pdf and falls back to the
// pdftotext binary when the library fails or returns unreadable text.
type RealPDFExtractor struct {
	logger logging.Logger
	// Pdftotext is the fallback binary; empty disables the fallback.
	Pdftotext string
}

// NewRealPDFExtractor returns an extractor with the pdftotext fallback on.
func NewRealPDFExtractor(logger logging.Logger) *RealPDFExtractor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RealPDFExtractor{logger: logger, Pdftotext: "pdftotext"}
}

// ExtractText returns the document text, one PDF row per line.
func (e *RealPDFExtractor) ExtractText(pdfPath string) (string, error) {
	text, libErr := extractWithLibrary(pdfPath)
	if libErr == nil && IsReadable(text) {
		return text, nil
	}
	if libErr != nil {
		e.logger.WithError(libErr).Debug("PDF library extraction failed, trying pdftotext",
			logging.Field{Key: logging.FieldFile, Value: pdfPath})
	}

	if e.Pdftotext != "" {
		text, err := extractWithPdftotext(e.Pdftotext, pdfPath)
		if err == nil && IsReadable(text) {
			return text, nil
		}
		if err != nil && libErr == nil {
			libErr = err
		}
	}

	if libErr != nil {
		return "", fmt.Errorf("PDF text extraction failed: %w", libErr)
	}
	return "", fmt.Errorf("no readable text could be extracted from PDF %s", pdfPath)
}

// extractWithLibrary joins words row by row. ledongthuc/pdf panics on some
// malformed inputs; the panic is turned into an error.
func extractWithLibrary(pdfPath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var lines []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func extractWithPdftotext(bin, pdfPath string) (string, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("pdftotext not available: %w", err)
	}
	var stderr bytes.Buffer
	cmd := exec.Command(bin, "-layout", "-enc", "UTF-8", pdfPath, "-") // #nosec G204 -- binary comes from config
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// IsReadable rejects empty output and the glyph soup produced by PDFs with
// custom font encodings: at least 20 non-space runes, 70% of them letters,
// digits or common punctuation.
func IsReadable(text string) bool {
	total, readable := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(".,:;-+*/()№«»\"'₽%", r) {
			readable++
		}
	}
	return total >= 20 && float64(readable)/float64(total) >= 0.7
}

// ExtractFromReader spools r to a temp file and extracts it. Used for
// uploads that never touch disk otherwise.
func ExtractFromReader(e PDFExtractor, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return e.ExtractText(tmp.Name())
}

// MockPDFExtractor returns canned text or an error.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    int
}

// NewMockPDFExtractor returns a MockPDFExtractor.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{MockText: mockText, MockErr: mockErr}
}

func (e *MockPDFExtractor) ExtractText(string) (string, error) {
	e.Calls++
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
