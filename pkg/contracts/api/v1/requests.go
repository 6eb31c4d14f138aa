// Package api contains the HTTP request and response contracts of the
// TradePulse analysis API.
package api

import (
	"time"

	"tradepulse/pkg/contracts/domain"
)

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ExportRequest selects the rendering of POST /api/analyses/export
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"required,oneof=xlsx csv"`
	Table  string `json:"table" query:"table" validate:"omitempty,oneof=summary highlow hourly dates date_hours monthly amounts strategy"`
}

// AnalysisResponse is returned by POST /api/analyses
type AnalysisResponse struct {
	AnalysisID  string                 `json:"analysis_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Files       []domain.UploadedFile  `json:"files"`
	DateRange   domain.DateRange       `json:"date_range"`
	Result      *domain.AnalysisResult `json:"result"`
}
