package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// utf8BOM lets Excel recognize UTF-8 CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter exports single tables of an analysis result
type CSVWriter struct {
	loc    *time.Location
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rendering timestamps in loc
func NewCSVWriter(loc *time.Location, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{loc: loc, logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteTable writes the kind table of result to w, BOM first
func (c *CSVWriter) WriteTable(kind TableKind, result *domain.AnalysisResult, w io.Writer) error {
	if result == nil {
		return fmt.Errorf("no analysis result to export")
	}

	table, err := buildTable(kind, result, plainFormat(c.loc))
	if err != nil {
		return err
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.Rows {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	c.logger.Debug("csv table written",
		slog.String("table", string(kind)),
		slog.Int("record_count", len(table.Rows)))
	return nil
}

// CSVFileName is the download name of one exported table
func CSVFileName(kind TableKind, now time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s_%s_%s.csv", reportPrefix, kind, reportDate(now, loc))
}
