// Package batch imports every statement file of a directory into one account
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// Importer is the part of the import orchestrator a batch needs.
type Importer interface {
	Import(ctx context.Context, req importer.Request) (*models.ImportResult, error)
}

// ReadFunc loads a statement file and returns its type and decoded text.
type ReadFunc func(path string) (models.FileType, string, error)

// FileResult is the outcome for one file. Result may be set together with
// Error when the import stopped part way.
type FileResult struct {
	File   string               `json:"file"`
	Result *models.ImportResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Summary aggregates a batch run.
type Summary struct {
	Files    []FileResult `json:"files"`
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
}

// Runner imports files one after another. Overlapping statements are safe:
// rows already stored by an earlier file are reported as skipped.
type Runner struct {
	importer Importer
	read     ReadFunc
	logger   logging.Logger
}

// NewRunner creates a Runner.
func NewRunner(imp Importer, read ReadFunc, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Runner{importer: imp, read: read, logger: logger}
}

// ListStatementFiles returns the .csv and .pdf files under dirPath, sorted
// by path so that statements named by period import in order.
func ListStatementFiles(dirPath string) ([]string, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dirPath)
	}

	var files []string
	err = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".pdf":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// Run imports every statement in dirPath for userID into accountID. A file
// that fails is recorded and the batch moves on; only listing failures and
// cancellation abort the run.
func (r *Runner) Run(ctx context.Context, dirPath, userID, accountID string) (*Summary, error) {
	files, err := ListStatementFiles(dirPath)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Starting batch import",
		logging.F(logging.FieldCount, len(files)),
		logging.F(logging.FieldAccount, accountID))

	summary := &Summary{Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fr := r.importFile(ctx, file, userID, accountID)
		if fr.Result != nil {
			summary.Imported += fr.Result.Imported
			summary.Skipped += fr.Result.Skipped
		}
		if fr.Error != "" {
			summary.Failed++
		}
		summary.Files = append(summary.Files, fr)
	}

	r.logger.Info("Batch import finished",
		logging.F("files", len(files)),
		logging.F("imported", summary.Imported),
		logging.F("skipped", summary.Skipped),
		logging.F("failed", summary.Failed))
	return summary, nil
}

func (r *Runner) importFile(ctx context.Context, file, userID, accountID string) FileResult {
	fr := FileResult{File: file}
	log := r.logger.WithField(logging.FieldFile, filepath.Base(file))

	fileType, content, err := r.read(file)
	if err != nil {
		log.WithError(err).Warn("Failed to read statement")
		fr.Error = err.Error()
		return fr
	}

	result, err := r.importer.Import(ctx, importer.Request{
		UserID:    userID,
		AccountID: accountID,
		FileType:  fileType,
		Content:   content,
	})
	fr.Result = result
	if err != nil {
		log.WithError(err).Warn("Failed to import statement")
		fr.Error = err.Error()
	}
	return fr
}
