package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tradepulse/internal/config"
	"tradepulse/internal/dataprocessing"
	apperrors "tradepulse/internal/errors"
	"tradepulse/internal/exporter"
	"tradepulse/internal/infrastructure"
	ws "tradepulse/internal/websocket"
	api "tradepulse/pkg/contracts/api/v1"
	"tradepulse/pkg/contracts/domain"
	"tradepulse/pkg/contracts/events"
)

// AnalysisReport is the outcome of one analysis run
type AnalysisReport = api.AnalysisResponse

// ExportFile describes a rendered download
type ExportFile struct {
	Name        string
	ContentType string
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// AnalysisService loads trade files, runs the engine and renders reports
type AnalysisService struct {
	cfg      config.AnalysisConfig
	analyzer *dataprocessing.Analyzer
	workbook *exporter.WorkbookWriter
	csv      *exporter.CSVWriter
	display  *time.Location
	hub      ws.Broadcaster
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// AnalysisServiceOption customizes an AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithBroadcaster publishes progress events to b
func WithBroadcaster(b ws.Broadcaster) AnalysisServiceOption {
	return func(s *AnalysisService) { s.hub = b }
}

// WithMetrics records analysis instruments
func WithMetrics(m *infrastructure.BusinessMetrics) AnalysisServiceOption {
	return func(s *AnalysisService) { s.metrics = m }
}

// WithTracer replaces the global tracer
func WithTracer(t trace.Tracer) AnalysisServiceOption {
	return func(s *AnalysisService) { s.tracer = t }
}

// WithClock replaces time.Now for report stamps
func WithClock(now func() time.Time) AnalysisServiceOption {
	return func(s *AnalysisService) { s.now = now }
}

// NewAnalysisService builds the engine and exporters from cfg
func NewAnalysisService(cfg config.AnalysisConfig, logger *slog.Logger, opts ...AnalysisServiceOption) (*AnalysisService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	source, display, err := cfg.LoadLocations()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid analysis timezones", err)
	}

	s := &AnalysisService{
		cfg:     cfg,
		display: display,
		tracer:  otel.Tracer(infrastructure.MeterName),
		logger:  logger.With(slog.String("service", "analysis")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.analyzer = dataprocessing.NewAnalyzer(dataprocessing.AnalyzerOptions{
		TargetSymbol:      cfg.TargetSymbol,
		MinDateHourTrades: cfg.MinDateHourTrades,
		Strategy: dataprocessing.RankingRules{
			MinTotal: cfg.StrategyMinTrades,
			Limit:    cfg.StrategyLimit,
		},
		Location: source,
	})
	s.workbook = exporter.NewWorkbookWriter(exporter.ReportOptions{
		Location: display,
		HourRules: dataprocessing.RankingRules{
			MinTotal: cfg.StrategyMinTrades,
			Limit:    cfg.ReportHourLimit,
		},
		DateRules: dataprocessing.RankingRules{
			MinTotal: cfg.ReportMinDateTrades,
			Limit:    cfg.ReportDateLimit,
		},
		Now: s.now,
	}, logger)
	s.csv = exporter.NewCSVWriter(display, logger)

	return s, nil
}

// Analyze parses sources and runs the engine over their combined records.
// Per-file progress and the final outcome are broadcast as they happen.
func (s *AnalysisService) Analyze(ctx context.Context, sources []dataprocessing.Source) (*AnalysisReport, error) {
	analysisID := uuid.New().String()
	start := s.now()

	ctx, span := s.tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("analysis.id", analysisID),
		attribute.Int("analysis.files", len(sources)),
	))
	defer span.End()

	logger := s.logger.With(slog.String("analysis_id", analysisID))
	logger.InfoContext(ctx, "analysis started", slog.Int("files", len(sources)))

	if len(sources) > s.cfg.MaxFiles {
		return nil, s.fail(ctx, analysisID, start, apperrors.TooManyFilesError(len(sources), s.cfg.MaxFiles))
	}

	loader := dataprocessing.NewLoader(logger, s.cfg.ParseConcurrency).
		OnStatus(func(ctx context.Context, f domain.UploadedFile) {
			if f.Status != domain.FileStatusUploading {
				infrastructure.RecordFileMetrics(ctx, s.metrics, string(f.Status))
			}
			s.broadcast(ctx, events.MessageTypeFileStatus, events.FileStatus{AnalysisID: analysisID, UploadedFile: f})
		})

	records, files, err := loader.Load(ctx, sources)
	if err != nil {
		return nil, s.fail(ctx, analysisID, start, toAPIError(err, files))
	}
	infrastructure.AddSpanEvent(ctx, "files.loaded", attribute.Int("records", len(records)))

	result, err := s.analyzer.Analyze(records)
	if err != nil {
		return nil, s.fail(ctx, analysisID, start, toAPIError(err, files))
	}

	d := result.Diagnostics
	logger.InfoContext(ctx, "analysis diagnostics",
		slog.Int("input_rows", d.InputRows),
		slog.Int("matched_rows", d.MatchedRows),
		slog.Int("unique_rows", d.UniqueRows),
		slog.Int("duplicate_rows", d.DuplicateRows),
		slog.Int("undetermined_rows", d.UndeterminedRows),
		slog.Int("invalid_timestamp_rows", d.InvalidTimestampRows))

	report := &AnalysisReport{
		AnalysisID:  analysisID,
		GeneratedAt: s.now().UTC(),
		Files:       files,
		DateRange:   dataprocessing.FormatDateRange(result.Summary, s.display),
		Result:      result,
	}

	duration := s.now().Sub(start)
	infrastructure.RecordAnalysisMetrics(ctx, s.metrics, result.Summary.Total, duration, "")
	span.SetAttributes(attribute.Int("analysis.trades", result.Summary.Total))

	s.broadcast(ctx, events.MessageTypeAnalysisComplete, events.AnalysisComplete{
		AnalysisID: analysisID,
		Files:      files,
		Summary:    result.Summary,
		DateRange:  report.DateRange,
	})

	logger.InfoContext(ctx, "analysis completed",
		slog.Int("trades", result.Summary.Total),
		slog.Int("wins", result.Summary.Wins),
		slog.Duration("duration", duration))

	return report, nil
}

func (s *AnalysisService) fail(ctx context.Context, analysisID string, start time.Time, err error) error {
	reason := failureReason(err)
	infrastructure.RecordAnalysisMetrics(ctx, s.metrics, 0, s.now().Sub(start), reason)
	infrastructure.RecordError(ctx, err)

	s.logger.WarnContext(ctx, "analysis failed",
		slog.String("analysis_id", analysisID),
		slog.String("reason", reason),
		slog.String("error", err.Error()))

	message := err.Error()
	if apiErr, ok := err.(*apperrors.APIError); ok {
		message = apiErr.Message
	}
	s.broadcast(ctx, events.MessageTypeAnalysisFailed, events.AnalysisFailed{
		AnalysisID: analysisID,
		Code:       reason,
		Message:    message,
	})
	return err
}

func (s *AnalysisService) broadcast(ctx context.Context, msgType events.MessageType, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(ctx, msgType, data)
	}
}

// Export renders result in the requested format to w. table selects the CSV
// table and is ignored for workbooks.
func (s *AnalysisService) Export(ctx context.Context, result *domain.AnalysisResult, req api.ExportRequest, w io.Writer) (*ExportFile, error) {
	if result == nil {
		return nil, apperrors.ErrValidation("result", ErrNoResult.Error())
	}

	ctx, span := s.tracer.Start(ctx, "analysis.export", trace.WithAttributes(
		attribute.String("export.format", req.Format),
		attribute.String("export.table", req.Table),
	))
	defer span.End()

	file, err := s.export(result, req, w)
	infrastructure.RecordExportMetrics(ctx, s.metrics, req.Format, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "report export failed",
			slog.String("format", req.Format),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "report exported",
		slog.String("format", req.Format),
		slog.String("file", file.Name))
	return file, nil
}

func (s *AnalysisService) export(result *domain.AnalysisResult, req api.ExportRequest, w io.Writer) (*ExportFile, error) {
	now := s.now()

	switch req.Format {
	case api.FormatXLSX:
		if err := s.workbook.Write(result, w); err != nil {
			return nil, apperrors.ExportFailedError(err)
		}
		return &ExportFile{Name: exporter.ReportFileName(now, s.display), ContentType: contentTypeXLSX}, nil

	case api.FormatCSV:
		kind, err := exporter.ParseTableKind(req.Table)
		if err != nil {
			return nil, apperrors.ErrValidation("table", err.Error())
		}
		if err := s.csv.WriteTable(kind, result, w); err != nil {
			return nil, apperrors.ExportFailedError(err)
		}
		return &ExportFile{Name: exporter.CSVFileName(kind, now, s.display), ContentType: contentTypeCSV}, nil

	default:
		return nil, apperrors.ErrValidation("format", fmt.Sprintf("%s: %q", ErrUnknownFormat, req.Format))
	}
}
