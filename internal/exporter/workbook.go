package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"tradepulse/internal/dataprocessing"
	"tradepulse/pkg/contracts/domain"
)

const (
	reportPrefix = "BTC取引分析"
	reportTitle  = "BTC取引分析レポート"
)

// Sheet names of the report workbook, in order
const (
	SheetSummary     = "サマリー"
	SheetHourly      = "時間帯別"
	SheetHourRanking = "時間帯ランキング"
	SheetTopDates    = "日付ランキング"
	SheetDateHours   = "日付×時間帯"
	SheetMonthly     = "月別"
	SheetAmounts     = "金額別"
)

// ReportOptions configures the workbook report
type ReportOptions struct {
	// Location renders dates and the generation stamp
	Location *time.Location
	// HourRules select the top and worst hours
	HourRules dataprocessing.RankingRules
	// DateRules select the best dates
	DateRules dataprocessing.RankingRules
	// Now stamps the report footer; time.Now when nil
	Now func() time.Time
}

// DefaultReportOptions ranks five hours and five dates in Asia/Tokyo
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Location:  dataprocessing.TokyoLocation(),
		HourRules: dataprocessing.ReportHourRules,
		DateRules: dataprocessing.ReportDateRules,
		Now:       time.Now,
	}
}

// WorkbookWriter renders an analysis result as a multi-sheet xlsx report
type WorkbookWriter struct {
	opts   ReportOptions
	logger *slog.Logger
}

// NewWorkbookWriter creates a report writer, filling zero options with defaults
func NewWorkbookWriter(opts ReportOptions, logger *slog.Logger) *WorkbookWriter {
	def := DefaultReportOptions()
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.HourRules.MinTotal <= 0 || opts.HourRules.Limit <= 0 {
		opts.HourRules = def.HourRules
	}
	if opts.DateRules.MinTotal <= 0 || opts.DateRules.Limit <= 0 {
		opts.DateRules = def.DateRules
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{opts: opts, logger: logger.With(slog.String("component", "workbook_exporter"))}
}

// ReportFileName is the download name of the report generated at now
func ReportFileName(now time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s_%s.xlsx", reportPrefix, reportDate(now, loc))
}

func reportDate(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = dataprocessing.TokyoLocation()
	}
	return now.In(loc).Format("20060102")
}

// Write renders result and streams the workbook to w
func (ww *WorkbookWriter) Write(result *domain.AnalysisResult, w io.Writer) error {
	if result == nil {
		return fmt.Errorf("no analysis result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newReportStyles(f)
	if err != nil {
		return err
	}

	format := reportFormat(ww.opts.Location)
	sheets := []struct {
		name  string
		write func(*sheet) error
	}{
		{SheetSummary, func(s *sheet) error { return ww.writeSummary(s, result, format) }},
		{SheetHourly, func(s *sheet) error { return s.table(hourlyTable(result.Hourly, format)) }},
		{SheetHourRanking, func(s *sheet) error { return ww.writeHourRanking(s, result, format) }},
		{SheetTopDates, func(s *sheet) error { return ww.writeTopDates(s, result, format) }},
		{SheetDateHours, func(s *sheet) error { return s.tableOf(TableDateHours, result, format) }},
		{SheetMonthly, func(s *sheet) error { return s.tableOf(TableMonthly, result, format) }},
		{SheetAmounts, func(s *sheet) error { return s.tableOf(TableAmounts, result, format) }},
	}

	for i, def := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), def.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", def.name, err)
			}
		} else if _, err := f.NewSheet(def.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", def.name, err)
		}

		s := &sheet{f: f, name: def.name, styles: styles}
		if err := def.write(s); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", def.name, err)
		}
		if err := f.SetColWidth(def.name, "A", "A", 24); err != nil {
			return err
		}
		if err := f.SetColWidth(def.name, "B", "G", 14); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	ww.logger.Debug("workbook report written",
		slog.Int("sheets", len(sheets)),
		slog.Int("trades", result.Summary.Total))
	return nil
}

func (ww *WorkbookWriter) writeSummary(s *sheet, result *domain.AnalysisResult, f cellFormat) error {
	sum := result.Summary
	loc := ww.opts.Location

	winRate := Placeholder
	if sum.WinRate != nil {
		winRate = fmt.Sprintf("%s（%d勝 %d敗）", FormatPercent(*sum.WinRate), sum.Wins, sum.Losses)
	}
	averageLoss := Placeholder
	if sum.AverageLoss != nil {
		averageLoss = FormatYen(-*sum.AverageLoss)
	}
	expected := Placeholder
	if sum.ExpectedValue != nil {
		expected = FormatSignedYen(*sum.ExpectedValue)
	}

	steps := []func() error{
		func() error { return s.title(reportTitle) },
		s.blank,
		func() error { return s.heading("基本情報") },
		func() error { return s.row("総取引数", sum.Total) },
		func() error {
			return s.row("分析期間", FormatJapaneseDate(sum.StartTime, loc)+" 〜 "+FormatJapaneseDate(sum.EndTime, loc))
		},
		func() error { return s.row("勝率", winRate) },
		s.blank,
		func() error { return s.heading("損益分析") },
		func() error { return s.row("総損益", FormatSignedYen(sum.TotalProfit)) },
		func() error { return s.row("平均利益", FormatOptionalYen(sum.AverageProfit)) },
		func() error { return s.row("平均損失", averageLoss) },
		func() error { return s.row("平均購入金額", FormatOptionalYen(sum.AverageAmount)) },
		func() error { return s.row("期待値（1回あたり）", expected) },
		func() error { return s.row("総投資額", FormatYen(sum.TotalInvestment)) },
		func() error { return s.row("総払戻額", FormatYen(sum.TotalPayout)) },
		s.blank,
		func() error { return s.heading("HIGH/LOW分析") },
		func() error { return s.table(highLowTable(result.HighLow, f)) },
		s.blank,
		func() error {
			return s.row(fmt.Sprintf("このレポートはBTCトレード分析ツールによって自動生成されました。作成日時：%s",
				ww.opts.Now().In(loc).Format("2006/1/2")))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (ww *WorkbookWriter) writeHourRanking(s *sheet, result *domain.AnalysisResult, f cellFormat) error {
	rules := ww.opts.HourRules
	ranked := dataprocessing.RankHours(result.Hourly, rules)

	if err := s.heading(fmt.Sprintf("勝率が高い時間帯（上位%d件）", rules.Limit)); err != nil {
		return err
	}
	if err := s.table(hourlyTable(ranked.TopHours, f)); err != nil {
		return err
	}
	if err := s.blank(); err != nil {
		return err
	}
	if err := s.heading(fmt.Sprintf("勝率が低い時間帯（下位%d件）", rules.Limit)); err != nil {
		return err
	}
	return s.table(hourlyTable(ranked.WorstHours, f))
}

func (ww *WorkbookWriter) writeTopDates(s *sheet, result *domain.AnalysisResult, f cellFormat) error {
	rules := ww.opts.DateRules
	if err := s.heading(fmt.Sprintf("勝率が高い日（上位%d件）", rules.Limit)); err != nil {
		return err
	}
	return s.table(datesTable(dataprocessing.RankDates(result.Dates, rules), f))
}

type reportStyles struct {
	title   int
	heading int
	header  int
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	var (
		st  reportStyles
		err error
	)
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return st, fmt.Errorf("failed to create title style: %w", err)
	}
	if st.heading, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}); err != nil {
		return st, fmt.Errorf("failed to create heading style: %w", err)
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return st, fmt.Errorf("failed to create header style: %w", err)
	}
	return st, nil
}

// sheet appends rows to one worksheet
type sheet struct {
	f      *excelize.File
	name   string
	styles reportStyles
	next   int
}

func (s *sheet) row(values ...any) error {
	s.next++
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheet) styled(style, width int, values ...any) error {
	if err := s.row(values...); err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(width, 1), s.next)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(s.name, first, last, style)
}

func (s *sheet) blank() error {
	s.next++
	return nil
}

func (s *sheet) title(text string) error {
	return s.styled(s.styles.title, 1, text)
}

func (s *sheet) heading(text string) error {
	return s.styled(s.styles.heading, 1, text)
}

func (s *sheet) table(t Table) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := s.styled(s.styles.header, len(t.Header), header...); err != nil {
		return err
	}
	for _, r := range t.Rows {
		values := make([]any, len(r))
		for i, v := range r {
			values[i] = v
		}
		if err := s.row(values...); err != nil {
			return err
		}
	}
	return nil
}

func (s *sheet) tableOf(kind TableKind, result *domain.AnalysisResult, f cellFormat) error {
	t, err := buildTable(kind, result, f)
	if err != nil {
		return err
	}
	return s.table(t)
}
