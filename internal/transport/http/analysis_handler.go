package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tradepulse/internal/dataprocessing"
	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/middleware"
	"tradepulse/internal/validation"
	api "tradepulse/pkg/contracts/api/v1"
	"tradepulse/pkg/contracts/domain"
)

const (
	// uploadField is the multipart field carrying trade history files
	uploadField = "files"

	// multipartMemory is kept in memory before parts spill to disk
	multipartMemory = 32 << 20

	// exportBodyLimit bounds the JSON body of an export request
	exportBodyLimit = 10 << 20
)

// AnalysisHandler handles trade history uploads and report downloads
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	uploads      *validation.UploadValidator
	validator    *middleware.ValidationMiddleware
	maxFileBytes int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, uploads *validation.UploadValidator, maxFileBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}

	return &AnalysisHandler{
		service:      service,
		uploads:      uploads,
		validator:    middleware.NewValidationMiddleware(logger, errorHandler, exportBodyLimit),
		maxFileBytes: maxFileBytes,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.ContentTypeValidator("multipart/form-data")).Post("/", h.Analyze)
	r.With(middleware.ContentTypeValidator("application/json")).Post("/export", h.Export)
	r.With(middleware.ContentTypeValidator("multipart/form-data")).Post("/export/upload", h.AnalyzeAndExport)

	return r
}

// Analyze handles POST /api/analyses
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sources, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	report, err := h.service.Analyze(ctx, sources)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "analysis served",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("analysis_id", report.AnalysisID),
		slog.Int("files", len(report.Files)))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// Export handles POST /api/analyses/export. The body is an analysis result
// as returned in the result field of POST /api/analyses.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	req, ok := h.exportRequest(w, r)
	if !ok {
		return
	}

	var result domain.AnalysisResult
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, exportBodyLimit), &result); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(http.StatusRequestEntityTooLarge,
				apierrors.CodeInvalidRequest, "Request body too large", map[string]int64{"max_bytes": maxErr.Limit}))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.download(w, r, &result, req)
}

// AnalyzeAndExport handles POST /api/analyses/export/upload: one request
// analyzes the uploaded files and answers with the rendered report
func (h *AnalysisHandler) AnalyzeAndExport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.exportRequest(w, r)
	if !ok {
		return
	}

	sources, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	report, err := h.service.Analyze(r.Context(), sources)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.download(w, r, report.Result, req)
}

// exportRequest reads format and table from the query. format defaults to xlsx.
func (h *AnalysisHandler) exportRequest(w http.ResponseWriter, r *http.Request) (api.ExportRequest, bool) {
	q := r.URL.Query()
	req := api.ExportRequest{
		Format: strings.ToLower(strings.TrimSpace(q.Get("format"))),
		Table:  strings.ToLower(strings.TrimSpace(q.Get("table"))),
	}
	if req.Format == "" {
		req.Format = api.FormatXLSX
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return req, false
	}
	return req, true
}

// readUpload parses the multipart form and turns the files field into
// engine sources. cleanup removes any temporary files of the form.
func (h *AnalysisHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]dataprocessing.Source, func(), error) {
	noop := func() {}

	if limit := h.uploadLimit(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, noop, apierrors.FileTooLargeError("upload", h.maxFileBytes)
		}
		return nil, noop, apierrors.InvalidRequestWithError(err)
	}
	cleanup := func() { r.MultipartForm.RemoveAll() }

	headers := r.MultipartForm.File[uploadField]
	if err := h.uploads.Validate(headers); err != nil {
		cleanup()
		return nil, noop, err
	}

	sources := make([]dataprocessing.Source, 0, len(headers))
	for _, fh := range headers {
		sources = append(sources, headerSource(fh))
	}
	return sources, cleanup, nil
}

// uploadLimit caps the whole multipart body at every allowed file at full
// size plus headroom for the form framing
func (h *AnalysisHandler) uploadLimit() int64 {
	if h.maxFileBytes <= 0 {
		return 0
	}
	return int64(h.uploads.MaxFiles())*h.maxFileBytes + 1<<20
}

func headerSource(fh *multipart.FileHeader) dataprocessing.Source {
	return dataprocessing.Source{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// download renders the report into memory first so a failed export still
// answers with a problem response instead of a truncated file
func (h *AnalysisHandler) download(w http.ResponseWriter, r *http.Request, result *domain.AnalysisResult, req api.ExportRequest) {
	ctx := r.Context()

	var buf bytes.Buffer
	file, err := h.service.Export(ctx, result, req, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(ctx, "report download interrupted",
			slog.String("file", file.Name),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "report downloaded",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.String("file", file.Name),
		slog.String("format", req.Format))
}
