// Package api exposes detection, import and categorization over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/statement-import/internal/categorizer"
	"fjacquet/statement-import/internal/extractor"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/textutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// StatementService is the part of the importer the API calls.
type StatementService interface {
	Detect(ctx context.Context, userID string, fileType models.FileType, content string) (*models.DetectResult, error)
	Import(ctx context.Context, req importer.Request) (*models.ImportResult, error)
}

// Config holds the server dependencies.
type Config struct {
	Service     StatementService
	Categorizer *categorizer.Categorizer
	Extractor   extractor.PDFExtractor
	Logger      logging.Logger
	// MaxUploadMB bounds request bodies; zero means 10.
	MaxUploadMB int
}

// Server is the fiber application with its handlers.
type Server struct {
	app         *fiber.App
	service     StatementService
	categorizer *categorizer.Categorizer
	extractor   extractor.PDFExtractor
	logger      logging.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error"`
	Result  *models.ImportResult `json:"result,omitempty"`
}

// partialImportError carries the rows already persisted when an import
// stops midway.
type partialImportError struct {
	result *models.ImportResult
	err    error
}

func (e *partialImportError) Error() string { return e.err.Error() }
func (e *partialImportError) Unwrap() error { return e.err }

// NewServer builds the application and registers the routes.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscardLogger()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}
	if cfg.Categorizer == nil {
		cfg.Categorizer = categorizer.NewCategorizer(nil, nil, cfg.Logger)
	}

	s := &Server{
		service:     cfg.Service,
		categorizer: cfg.Categorizer,
		extractor:   cfg.Extractor,
		logger:      cfg.Logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "statement-import",
		BodyLimit:             cfg.MaxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/detect", s.handleDetect)
	api.Post("/import", s.handleImport)
	api.Post("/categorize", s.handleCategorize)
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", logging.F("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("HTTP request",
		logging.F("method", c.Method()),
		logging.F("path", c.Path()),
		logging.F("status", c.Response().StatusCode()),
		logging.F(logging.FieldDuration, time.Since(start).String()))
	return err
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"ai":      s.categorizer.AI() != nil && s.categorizer.AI().IsAvailable(),
	})
}

func (s *Server) handleDetect(c *fiber.Ctx) error {
	fileType, content, err := s.readUpload(c)
	if err != nil {
		return err
	}
	res, err := s.service.Detect(c.UserContext(), c.FormValue("user_id"), fileType, content)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) handleImport(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.FormValue("user_id"))
	accountID := strings.TrimSpace(c.FormValue("account_id"))
	if userID == "" || accountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id and account_id are required")
	}
	fileType, content, err := s.readUpload(c)
	if err != nil {
		return err
	}
	res, err := s.service.Import(c.UserContext(), importer.Request{
		UserID:    userID,
		AccountID: accountID,
		FileType:  fileType,
		Content:   content,
	})
	if err != nil {
		if res != nil {
			return &partialImportError{result: res, err: err}
		}
		return err
	}
	return c.JSON(res)
}

// CategorizeRequest is the body of POST /api/categorize.
type CategorizeRequest struct {
	Items []categorizer.Item `json:"items"`
	UseAI bool               `json:"use_ai"`
}

// CategorizeResponse lists one result per requested item, in order.
type CategorizeResponse struct {
	Results   []categorizer.Result           `json:"results"`
	Breakdown models.CategorizationBreakdown `json:"breakdown"`
}

func (s *Server) handleCategorize(c *fiber.Ctx) error {
	var req CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "items must not be empty")
	}
	txs := make([]models.ParsedTransaction, len(req.Items))
	for i, it := range req.Items {
		dir, err := models.ParseDirection(string(it.Direction))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("item %d: %v", i, err))
		}
		txs[i] = models.ParsedTransaction{Direction: dir, Description: it.Description}
	}

	cat := s.categorizer
	if !req.UseAI {
		cat = categorizer.NewCategorizer(s.categorizer.Mapper(), nil, s.logger)
	}
	results, breakdown := cat.CategorizeAll(c.UserContext(), txs)
	return c.JSON(CategorizeResponse{Results: results, Breakdown: breakdown})
}

// readUpload returns the decoded text of the multipart "file" field. The
// type comes from the "file_type" field or the file extension.
func (s *Server) readUpload(c *fiber.Ctx) (models.FileType, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	fileType, err := uploadType(c.FormValue("file_type"), fh.Filename)
	if err != nil {
		return "", "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	content, err := s.decode(fileType, fh, f)
	if err != nil {
		return "", "", err
	}
	return fileType, content, nil
}

func (s *Server) decode(fileType models.FileType, fh *multipart.FileHeader, f multipart.File) (string, error) {
	if fileType == models.FileTypePDF {
		if s.extractor == nil {
			return "", fiber.NewError(fiber.StatusNotImplemented, "PDF extraction is not configured")
		}
		text, err := extractor.ExtractFromReader(s.extractor, f)
		if err != nil {
			return "", &parsererror.InvalidFormatError{FilePath: fh.Filename, ExpectedFormat: "PDF with a text layer", Msg: err.Error()}
		}
		return text, nil
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(b) == 0 {
		return "", &parsererror.InvalidFormatError{FilePath: fh.Filename, ExpectedFormat: "CSV", Msg: "file is empty"}
	}
	return textutils.DecodeText(b), nil
}

func uploadType(explicit, filename string) (models.FileType, error) {
	kind := strings.ToLower(strings.TrimSpace(explicit))
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}
	switch models.FileType(kind) {
	case models.FileTypeCSV:
		return models.FileTypeCSV, nil
	case models.FileTypePDF:
		return models.FileTypePDF, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "Only CSV and PDF files are supported.")
}

// handleError maps domain errors to status codes.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	var invalid *parsererror.InvalidFormatError
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.Is(err, parsererror.ErrUnsupportedFormat), errors.Is(err, parsererror.ErrNoTransactions):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, importer.ErrAccountNotFound):
		status = fiber.StatusNotFound
	case errors.As(err, &invalid):
		status = fiber.StatusBadRequest
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		s.logger.WithError(err).Error("Request failed", logging.F("path", c.Path()))
		msg = "internal server error"
	} else {
		s.logger.Debug("Request rejected", logging.F("path", c.Path()), logging.F(logging.FieldReason, msg))
	}
	body := ErrorResponse{Success: false, Error: msg}
	var partial *partialImportError
	if errors.As(err, &partial) {
		body.Result = partial.result
	}
	return c.Status(status).JSON(body)
}
