package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fjacquet/statement-import/internal/extractor"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Detect(_ context.Context, userID string, fileType models.FileType, content string) (*models.DetectResult, error) {
	args := m.Called(userID, fileType, content)
	res, _ := args.Get(0).(*models.DetectResult)
	return res, args.Error(1)
}

func (m *mockService) Import(_ context.Context, req importer.Request) (*models.ImportResult, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*models.ImportResult)
	return res, args.Error(1)
}

func newTestServer(svc StatementService, ext extractor.PDFExtractor) *Server {
	return NewServer(Config{Service: svc, Extractor: ext, Logger: logging.NewMockLogger()})
}

func multipartRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v), string(b))
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&mockService{}, nil)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, Version, result["version"])
	assert.Equal(t, false, result["ai"])
}

func TestDetectEndpoint_CSV(t *testing.T) {
	svc := &mockService{}
	svc.On("Detect", "u1", models.FileTypeCSV, "Дата операции;Сумма операции").
		Return(&models.DetectResult{Bank: models.BankVTB, FileType: models.FileTypeCSV}, nil)
	s := newTestServer(svc, nil)

	req := multipartRequest(t, "/api/detect", "statement.CSV", []byte("\xEF\xBB\xBFДата операции;Сумма операции"), map[string]string{"user_id": "u1"})
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res models.DetectResult
	decodeBody(t, resp, &res)
	assert.Equal(t, models.BankVTB, res.Bank)
	svc.AssertExpectations(t)
}

func TestDetectEndpoint_PDFUsesExtractor(t *testing.T) {
	svc := &mockService{}
	svc.On("Detect", "u1", models.FileTypePDF, "extracted text").
		Return(&models.DetectResult{Bank: models.BankTinkoff, FileType: models.FileTypePDF, AccountNumber: "40817810100001234567"}, nil)
	ext := extractor.NewMockPDFExtractor("extracted text", nil)
	s := newTestServer(svc, ext)

	req := multipartRequest(t, "/api/detect", "requisites.pdf", []byte("%PDF-1.4"), map[string]string{"user_id": "u1"})
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, ext.Calls)

	var res models.DetectResult
	decodeBody(t, resp, &res)
	assert.Equal(t, "40817810100001234567", res.AccountNumber)
}

func TestDetectEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    []byte
		serviceErr error
		extractErr error
		wantStatus int
	}{
		{name: "no file", wantStatus: fiber.StatusBadRequest},
		{name: "unsupported extension", filename: "statement.xlsx", content: []byte("x"), wantStatus: fiber.StatusBadRequest},
		{name: "empty csv", filename: "statement.csv", content: []byte{}, wantStatus: fiber.StatusBadRequest},
		{name: "unreadable pdf", filename: "scan.pdf", content: []byte("x"), extractErr: errors.New("no text layer"), wantStatus: fiber.StatusBadRequest},
		{
			name: "unknown bank", filename: "statement.csv", content: []byte("a,b"),
			serviceErr: &parsererror.UnsupportedFormatError{FileType: "csv"}, wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name: "storage failure", filename: "statement.csv", content: []byte("a,b"),
			serviceErr: errors.New("database is locked"), wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Detect", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.serviceErr).Maybe()
			s := newTestServer(svc, extractor.NewMockPDFExtractor("", tt.extractErr))

			req := multipartRequest(t, "/api/detect", tt.filename, tt.content, nil)
			resp, err := s.App().Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body ErrorResponse
			decodeBody(t, resp, &body)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "database is locked", "internal errors are not leaked")
		})
	}
}

func TestImportEndpoint(t *testing.T) {
	svc := &mockService{}
	svc.On("Import", importer.Request{UserID: "u1", AccountID: "acc-1", FileType: models.FileTypeCSV, Content: "rows"}).
		Return(&models.ImportResult{Imported: 2, Skipped: 1, Bank: models.BankAlfa,
			Breakdown: &models.CategorizationBreakdown{ByKeyword: 1, ByDefault: 1}}, nil)
	s := newTestServer(svc, nil)

	req := multipartRequest(t, "/api/import", "alfa.csv", []byte("rows"), map[string]string{"user_id": "u1", "account_id": "acc-1"})
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res models.ImportResult
	decodeBody(t, resp, &res)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.NotNil(t, res.Breakdown)
	assert.Equal(t, 1, res.Breakdown.ByKeyword)
	svc.AssertExpectations(t)
}

func TestImportEndpoint_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("Import", mock.Anything).Return(nil, importer.ErrAccountNotFound).Once()
	s := newTestServer(svc, nil)

	req := multipartRequest(t, "/api/import", "alfa.csv", []byte("rows"), map[string]string{"user_id": "u1"})
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "account_id missing")

	req = multipartRequest(t, "/api/import", "alfa.csv", []byte("rows"), map[string]string{"user_id": "u1", "account_id": "other"})
	resp, err = s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestImportEndpoint_PartialResultOnFailure(t *testing.T) {
	svc := &mockService{}
	svc.On("Import", mock.Anything).
		Return(&models.ImportResult{Imported: 1, Bank: models.BankTinkoff}, errors.New("disk I/O error"))
	s := newTestServer(svc, nil)

	req := multipartRequest(t, "/api/import", "tbank.csv", []byte("rows"), map[string]string{"user_id": "u1", "account_id": "acc-1"})
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "internal server error", body.Error)
	require.NotNil(t, body.Result, "rows persisted before the failure are reported")
	assert.Equal(t, 1, body.Result.Imported)
	assert.Equal(t, models.BankTinkoff, body.Result.Bank)
}

func TestCategorizeEndpoint(t *testing.T) {
	s := newTestServer(&mockService{}, nil)

	body := `{"items":[{"direction":"expense","description":"ЯНДЕКС ТАКСИ"},{"direction":"INCOME","description":"ООО Ромашка"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/categorize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res CategorizeResponse
	decodeBody(t, resp, &res)
	require.Len(t, res.Results, 2)
	assert.Equal(t, models.CategoryTaxi, res.Results[0].Category)
	assert.Equal(t, "keyword", string(res.Results[0].Source))
	assert.Equal(t, models.CategoryOtherIncome, res.Results[1].Category)
	assert.Equal(t, models.CategorizationBreakdown{ByKeyword: 1, ByDefault: 1}, res.Breakdown)
}

func TestCategorizeEndpoint_BadRequests(t *testing.T) {
	s := newTestServer(&mockService{}, nil)

	for _, body := range []string{`{`, `{"items":[]}`, `{"items":[{"direction":"sideways","description":"x"}]}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/categorize", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.App().Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
	}
}
