package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/config"
	"tradepulse/internal/dataprocessing"
	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/services"
	"tradepulse/internal/shared/testutil"
	"tradepulse/internal/validation"
	api "tradepulse/pkg/contracts/api/v1"
	"tradepulse/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, sources []dataprocessing.Source) (*services.AnalysisReport, error) {
	args := m.Called(sources)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisReport), args.Error(1)
}

func (m *MockAnalysisService) Export(ctx context.Context, result *domain.AnalysisResult, req api.ExportRequest, w io.Writer) (*services.ExportFile, error) {
	args := m.Called(result, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportFile), args.Error(1)
}

type upload struct {
	name    string
	content string
}

func multipartBody(t *testing.T, uploads ...upload) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(uploadField, u.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, u.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func sampleUpload() upload {
	return upload{name: "history.csv", content: testutil.CSV(testutil.SampleHistory()...)}
}

func newAnalysisRouter(t *testing.T, service AnalysisServiceInterface) http.Handler {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default().Analysis
	uploads := validation.NewUploadValidator(cfg.MaxFiles, cfg.MaxFileBytes, cfg.AllowedExtensions)
	handler := NewAnalysisHandler(service, uploads, cfg.MaxFileBytes, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/analyses", handler.Routes())
	return r
}

func realService(t *testing.T) *services.AnalysisService {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	fixed := time.Date(2024, 3, 20, 9, 0, 0, 0, dataprocessing.TokyoLocation())
	svc, err := services.NewAnalysisService(config.Default().Analysis, logger,
		services.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	return svc
}

func decodeProblem(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &problem))
	return problem
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	router := newAnalysisRouter(t, realService(t))

	body, contentType := multipartBody(t, sampleUpload())
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report api.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotEmpty(t, report.AnalysisID)
	assert.Equal(t, domain.DateRange{Start: "2024/3/15", End: "2024/3/16"}, report.DateRange)
	require.Len(t, report.Files, 1)
	assert.Equal(t, domain.FileStatusDone, report.Files[0].Status)
	require.NotNil(t, report.Result)
	assert.Equal(t, 6, report.Result.Summary.Total)
	assert.Equal(t, 4, report.Result.Summary.Wins)
}

func TestAnalysisHandler_AnalyzeRejected(t *testing.T) {
	otherSymbol := testutil.SampleHistory()
	for i := range otherSymbol {
		otherSymbol[i].Symbol = "ETH/JPY"
	}

	tests := []struct {
		name           string
		uploads        []upload
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "no files",
			uploads:        nil,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeNoFiles,
		},
		{
			name: "too many files",
			uploads: []upload{
				sampleUpload(), sampleUpload(), sampleUpload(), sampleUpload(), sampleUpload(), sampleUpload(),
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeTooManyFiles,
		},
		{
			name:           "unsupported extension",
			uploads:        []upload{{name: "notes.txt", content: "hello"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeUnsupportedFile,
		},
		{
			name:           "unparsable workbook",
			uploads:        []upload{{name: "broken.xlsx", content: "not a workbook"}},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apierrors.CodeParseFailed,
		},
		{
			name:           "no matching trades",
			uploads:        []upload{{name: "eth.csv", content: testutil.CSV(otherSymbol...)}},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   apierrors.CodeNoMatchingRecords,
		},
	}

	router := newAnalysisRouter(t, realService(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.uploads...)
			req := httptest.NewRequest(http.MethodPost, "/api/analyses", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			problem := decodeProblem(t, w.Body.Bytes())
			assert.Equal(t, tt.expectedCode, problem["error_code"])
		})
	}
}

func TestAnalysisHandler_AnalyzeRequiresMultipart(t *testing.T) {
	router := newAnalysisRouter(t, &MockAnalysisService{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyses", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestAnalysisHandler_Export(t *testing.T) {
	svc := realService(t)
	report, err := svc.Analyze(context.Background(), []dataprocessing.Source{
		dataprocessing.BytesSource("history.csv", []byte(sampleUpload().content)),
	})
	require.NoError(t, err)

	payload, err := json.Marshal(report.Result)
	require.NoError(t, err)

	router := newAnalysisRouter(t, svc)

	tests := []struct {
		name         string
		query        string
		expectedType string
		expectedName string
	}{
		{
			name:         "default workbook",
			query:        "",
			expectedType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			expectedName: "BTC取引分析_20240320.xlsx",
		},
		{
			name:         "csv monthly table",
			query:        "?format=csv&table=monthly",
			expectedType: "text/csv; charset=utf-8",
			expectedName: "BTC取引分析_monthly_20240320.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyses/export"+tt.query, bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			assert.NotZero(t, w.Body.Len())

			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, tt.expectedName, params["filename"])
		})
	}
}

func TestAnalysisHandler_ExportRejected(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "unknown format",
			query:          "?format=pdf",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeValidationFailed,
		},
		{
			name:           "unknown table",
			query:          "?format=csv&table=weekly",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeValidationFailed,
		},
		{
			name:           "malformed body",
			query:          "?format=xlsx",
			body:           `{"summary":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.CodeInvalidRequest,
		},
	}

	router := newAnalysisRouter(t, &MockAnalysisService{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyses/export"+tt.query, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeProblem(t, w.Body.Bytes())["error_code"])
		})
	}
}

func TestAnalysisHandler_ExportFailure(t *testing.T) {
	service := &MockAnalysisService{}
	service.On("Export", mock.Anything, api.ExportRequest{Format: api.FormatXLSX}).
		Return(nil, apierrors.ExportFailedError(errors.New("disk full")))

	router := newAnalysisRouter(t, service)

	req := httptest.NewRequest(http.MethodPost, "/api/analyses/export?format=xlsx", strings.NewReader(`{"summary":{"total":1}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Equal(t, apierrors.CodeExportFailed, decodeProblem(t, w.Body.Bytes())["error_code"])
	service.AssertExpectations(t)
}

func TestAnalysisHandler_AnalyzeAndExport(t *testing.T) {
	router := newAnalysisRouter(t, realService(t))

	body, contentType := multipartBody(t, sampleUpload())
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/export/upload?format=csv&table=hourly", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "BTC取引分析_hourly_20240320.csv", params["filename"])
	assert.Contains(t, w.Body.String(), "09時台")
}
