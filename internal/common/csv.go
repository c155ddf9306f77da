// Package common provides the CSV plumbing shared by the bank parsers:
// delimiter fallback, tolerant header lookup and normalized export.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiters are tried in this order when reading a statement.
var Delimiters = []rune{';', ','}

// ErrStructure is returned when no delimiter yields a usable header row.
var ErrStructure = errors.New("csv: no delimiter produced a valid header")

// Table is a decoded CSV statement. Rows may be ragged; parsers skip the
// ones they cannot use.
type Table struct {
	Delimiter rune
	Headers   []string
	Rows      [][]string
	// Skipped counts records the CSV reader itself rejected.
	Skipped int
}

// ReadTable decodes content using the first delimiter that produces a
// header of at least minColumns columns without a structural error.
func ReadTable(content string, minColumns int) (*Table, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	var lastErr error
	for _, delim := range Delimiters {
		table, err := readWithDelimiter(content, delim)
		if err != nil {
			lastErr = err
			continue
		}
		if len(table.Headers) < minColumns {
			lastErr = fmt.Errorf("%w: only %d columns with %q", ErrStructure, len(table.Headers), delim)
			continue
		}
		return table, nil
	}
	if lastErr == nil {
		lastErr = ErrStructure
	}
	return nil, lastErr
}

func readWithDelimiter(content string, delim rune) (*Table, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	table := &Table{Delimiter: delim, Headers: trimAll(header)}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.Skipped++
				continue
			}
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, trimAll(record))
	}
	return table, nil
}

// Column resolves the index of the first header matching any candidate.
// Tiers are exact, then case-insensitive, then substring; a hit in an
// earlier tier always beats a later one. Returns -1 when nothing matches.
func (t *Table) Column(candidates ...string) int {
	return FindColumn(t.Headers, candidates...)
}

// FindColumn is Table.Column over a plain header slice.
func FindColumn(headers []string, candidates ...string) int {
	for _, c := range candidates {
		for i, h := range headers {
			if h == c {
				return i
			}
		}
	}
	for _, c := range candidates {
		for i, h := range headers {
			if strings.EqualFold(h, c) {
				return i
			}
		}
	}
	for _, c := range candidates {
		lc := strings.ToLower(c)
		for i, h := range headers {
			if lc != "" && strings.Contains(strings.ToLower(h), lc) {
				return i
			}
		}
	}
	return -1
}

// Field returns row[idx] or "" when idx is out of range.
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ExportRow is the normalized CSV layout written by the parse command.
type ExportRow struct {
	Date        string `csv:"date"`
	Direction   string `csv:"direction"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	RawCategory string `csv:"raw_category"`
	Category    string `csv:"category"`
}

// ToExportRows converts parsed transactions, attaching categories by index
// when provided.
func ToExportRows(transactions []models.ParsedTransaction, categories []string) []ExportRow {
	rows := make([]ExportRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = ExportRow{
			Date:        dateutils.ToISODate(tx.Date),
			Direction:   string(tx.Direction),
			Amount:      tx.Amount.StringFixed(2),
			Description: tx.Description,
			RawCategory: tx.RawCategory,
		}
		if i < len(categories) {
			rows[i].Category = categories[i]
		}
	}
	return rows
}

// WriteRows marshals rows to w using delim.
func WriteRows(w io.Writer, rows []ExportRow, delim rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delim
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteTransactionsToCSV writes the normalized export to csvFile, creating
// parent directories as needed.
func WriteTransactionsToCSV(rows []ExportRow, csvFile string, delim rune, logger logging.Logger) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteRows(file, rows, delim); err != nil {
		return err
	}

	logger.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}
