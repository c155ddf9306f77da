// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-import/internal/extractor"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/textutils"
)

// ResolveFileType picks the statement type from an explicit flag value or,
// when empty, from the file extension.
func ResolveFileType(path, explicit string) (models.FileType, error) {
	kind := strings.ToLower(strings.TrimSpace(explicit))
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch models.FileType(kind) {
	case models.FileTypeCSV:
		return models.FileTypeCSV, nil
	case models.FileTypePDF:
		return models.FileTypePDF, nil
	}
	return "", &parsererror.InvalidFormatError{
		FilePath:       path,
		ExpectedFormat: "csv or pdf",
		Msg:            fmt.Sprintf("cannot infer statement type from %q", kind),
	}
}

// ReadStatement loads path and returns its decoded text. PDFs go through
// e; CSV bytes are decoded from UTF-8 or Windows-1251.
func ReadStatement(path, explicitType string, e extractor.PDFExtractor) (models.FileType, string, error) {
	if path == "" {
		return "", "", fmt.Errorf("input file is required")
	}
	fileType, err := ResolveFileType(path, explicitType)
	if err != nil {
		return "", "", err
	}

	if fileType == models.FileTypePDF {
		if e == nil {
			return "", "", fmt.Errorf("no PDF extractor configured")
		}
		text, err := e.ExtractText(path)
		if err != nil {
			return "", "", &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "pdf", Msg: err.Error()}
		}
		return fileType, text, nil
	}

	// #nosec G304 -- path comes from the operator's command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("error reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", "", &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "csv", Msg: "file is empty"}
	}
	return fileType, textutils.DecodeText(data), nil
}

// PrintJSON writes v to w as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
