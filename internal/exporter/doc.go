// Package exporter renders analysis results as downloadable documents.
//
// WorkbookWriter produces the xlsx report: a summary sheet with the profit
// figures and the HIGH/LOW split, followed by hourly, ranking, date×hour,
// monthly and amount sheets. Amounts are whole yen (¥59,100) and dates are
// written as 2024年3月15日.
//
// CSVWriter exports one table at a time with a UTF-8 BOM so that Excel
// opens the Japanese headers correctly.
//
// Example usage:
//
//	w := exporter.NewWorkbookWriter(exporter.DefaultReportOptions(), logger)
//	name := exporter.ReportFileName(time.Now(), loc)
//	err := w.Write(result, file)
package exporter
