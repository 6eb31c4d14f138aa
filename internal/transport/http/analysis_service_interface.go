package http

import (
	"context"
	"io"

	"tradepulse/internal/dataprocessing"
	"tradepulse/internal/services"
	api "tradepulse/pkg/contracts/api/v1"
	"tradepulse/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations the handlers use
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, sources []dataprocessing.Source) (*services.AnalysisReport, error)
	Export(ctx context.Context, result *domain.AnalysisResult, req api.ExportRequest, w io.Writer) (*services.ExportFile, error)
}
