package exporter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// TableKind names one exportable table of an analysis result
type TableKind string

const (
	TableSummary   TableKind = "summary"
	TableHighLow   TableKind = "highlow"
	TableHourly    TableKind = "hourly"
	TableDates     TableKind = "dates"
	TableDateHours TableKind = "date_hours"
	TableMonthly   TableKind = "monthly"
	TableAmounts   TableKind = "amounts"
	TableStrategy  TableKind = "strategy"
)

// TableKinds lists every table in export order
var TableKinds = []TableKind{
	TableSummary, TableHighLow, TableHourly, TableDates,
	TableDateHours, TableMonthly, TableAmounts, TableStrategy,
}

// ParseTableKind resolves a table name. An empty name selects the hourly table.
func ParseTableKind(name string) (TableKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TableHourly, nil
	}
	for _, k := range TableKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown table %q", name)
}

// Table is a header plus string rows
type Table struct {
	Header []string
	Rows   [][]string
}

var statsHeader = []string{"取引数", "勝ち", "負け", "勝率"}

// cellFormat controls how amounts and rates render
type cellFormat struct {
	yen    func(float64) string
	rate   func(float64) string
	absent string
	loc    *time.Location
}

func (c cellFormat) optYen(v *float64) string {
	if v == nil {
		return c.absent
	}
	return c.yen(*v)
}

func (c cellFormat) optRate(v *float64) string {
	if v == nil {
		return c.absent
	}
	return c.rate(*v)
}

func (c cellFormat) timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if c.loc != nil {
		t = t.In(c.loc)
	}
	return t.Format("2006-01-02 15:04:05")
}

// plainFormat keeps numbers machine readable
func plainFormat(loc *time.Location) cellFormat {
	return cellFormat{yen: formatWhole, rate: formatFloat, absent: "", loc: loc}
}

// reportFormat matches the ja-JP report presentation
func reportFormat(loc *time.Location) cellFormat {
	return cellFormat{yen: FormatYen, rate: FormatPercent, absent: Placeholder, loc: loc}
}

func statsRow(label string, wl domain.WinLoss, f cellFormat) []string {
	return []string{
		label,
		strconv.Itoa(wl.Total),
		strconv.Itoa(wl.Wins),
		strconv.Itoa(wl.Losses),
		f.rate(wl.WinRate),
	}
}

func withLabel(label string) []string {
	return append([]string{label}, statsHeader...)
}

// buildTable renders kind from result
func buildTable(kind TableKind, result *domain.AnalysisResult, f cellFormat) (Table, error) {
	switch kind {
	case TableSummary:
		return summaryTable(result.Summary, f), nil
	case TableHighLow:
		return highLowTable(result.HighLow, f), nil
	case TableHourly:
		return hourlyTable(result.Hourly, f), nil
	case TableDates:
		return datesTable(result.Dates, f), nil
	case TableDateHours:
		t := Table{Header: withLabel("日時")}
		for _, d := range result.DateHours {
			t.Rows = append(t.Rows, statsRow(d.Key, d.WinLoss, f))
		}
		return t, nil
	case TableMonthly:
		t := Table{Header: append(withLabel("月"), "損益")}
		for _, m := range result.Monthly {
			t.Rows = append(t.Rows, append(statsRow(m.Month, m.WinLoss, f), f.yen(m.TotalProfit)))
		}
		return t, nil
	case TableAmounts:
		t := Table{Header: withLabel("購入金額")}
		for _, a := range result.Amounts {
			t.Rows = append(t.Rows, statsRow(a.Amount, a.WinLoss, f))
		}
		return t, nil
	case TableStrategy:
		t := Table{Header: append([]string{"区分"}, withLabel("時間帯")...)}
		for _, h := range result.Strategy.TopHours {
			t.Rows = append(t.Rows, append([]string{"上位"}, statsRow(h.Hour, h.WinLoss, f)...))
		}
		for _, h := range result.Strategy.WorstHours {
			t.Rows = append(t.Rows, append([]string{"下位"}, statsRow(h.Hour, h.WinLoss, f)...))
		}
		return t, nil
	default:
		return Table{}, fmt.Errorf("unknown table %q", kind)
	}
}

func summaryTable(s domain.Summary, f cellFormat) Table {
	return Table{
		Header: []string{"項目", "値"},
		Rows: [][]string{
			{"総取引数", strconv.Itoa(s.Total)},
			{"勝ち", strconv.Itoa(s.Wins)},
			{"負け", strconv.Itoa(s.Losses)},
			{"勝率", f.optRate(s.WinRate)},
			{"開始日時", f.timestamp(s.StartTime)},
			{"終了日時", f.timestamp(s.EndTime)},
			{"総損益", f.yen(s.TotalProfit)},
			{"平均利益", f.optYen(s.AverageProfit)},
			{"平均損失", f.optYen(s.AverageLoss)},
			{"総投資額", f.yen(s.TotalInvestment)},
			{"総払戻額", f.yen(s.TotalPayout)},
			{"平均購入金額", f.optYen(s.AverageAmount)},
			{"期待値", f.optYen(s.ExpectedValue)},
		},
	}
}

func highLowTable(stats []domain.HighLowStats, f cellFormat) Table {
	t := Table{Header: withLabel("方向")}
	for _, d := range stats {
		t.Rows = append(t.Rows, []string{
			string(d.Name),
			strconv.Itoa(d.Total),
			strconv.Itoa(d.Wins),
			strconv.Itoa(d.Losses),
			f.optRate(d.WinRate),
		})
	}
	return t
}

func hourlyTable(hours []domain.HourlyStats, f cellFormat) Table {
	t := Table{Header: withLabel("時間帯")}
	for _, h := range hours {
		t.Rows = append(t.Rows, statsRow(h.Hour, h.WinLoss, f))
	}
	return t
}

func datesTable(dates []domain.DateStats, f cellFormat) Table {
	t := Table{Header: withLabel("日付")}
	for _, d := range dates {
		t.Rows = append(t.Rows, statsRow(d.Date, d.WinLoss, f))
	}
	return t
}
