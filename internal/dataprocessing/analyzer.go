package dataprocessing

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"tradepulse/pkg/contracts/domain"
)

const hourSuffix = "時台"

// AnalyzerOptions configures one engine instance
type AnalyzerOptions struct {
	// TargetSymbol is matched as a substring of the symbol column
	TargetSymbol string
	// MinDateHourTrades drops date×hour buckets with fewer trades
	MinDateHourTrades int
	// Strategy selects the top/worst hours
	Strategy RankingRules
	// Location is where the export's civil timestamps were recorded
	Location *time.Location
}

// DefaultAnalyzerOptions returns the BTC / Asia/Tokyo configuration
func DefaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{
		TargetSymbol:      DefaultTargetSymbol,
		MinDateHourTrades: 3,
		Strategy:          StrategyRules,
		Location:          TokyoLocation(),
	}
}

// Analyzer runs the filter → normalize → classify → aggregate → rank pipeline.
// It holds no state between calls and is safe for concurrent use.
type Analyzer struct {
	opts AnalyzerOptions
}

// NewAnalyzer creates an analyzer, filling zero options with defaults
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	def := DefaultAnalyzerOptions()
	if opts.TargetSymbol == "" {
		opts.TargetSymbol = def.TargetSymbol
	}
	if opts.MinDateHourTrades <= 0 {
		opts.MinDateHourTrades = def.MinDateHourTrades
	}
	if opts.Strategy.MinTotal <= 0 {
		opts.Strategy.MinTotal = def.Strategy.MinTotal
	}
	if opts.Strategy.Limit <= 0 {
		opts.Strategy.Limit = def.Strategy.Limit
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	return &Analyzer{opts: opts}
}

// Options returns the effective options
func (a *Analyzer) Options() AnalyzerOptions {
	return a.opts
}

// Analyze runs the default analyzer over records
func Analyze(records []domain.Record) (*domain.AnalysisResult, error) {
	return NewAnalyzer(DefaultAnalyzerOptions()).Analyze(records)
}

// Analyze computes the full result for records. It returns either a
// complete result or an error, never both.
func (a *Analyzer) Analyze(records []domain.Record) (*domain.AnalysisResult, error) {
	trades, fstats, err := FilterRecords(records, a.opts.TargetSymbol)
	if err != nil {
		return nil, err
	}

	normalized := make([]domain.NormalizedTrade, 0, len(trades))
	for _, trade := range trades {
		nt, err := Normalize(trade, a.opts.Location)
		if err != nil {
			return nil, err
		}
		nt.Outcome = Classify(nt.Direction, nt.ReferenceRate, nt.SettlementRate)
		normalized = append(normalized, nt)
	}

	result, err := a.aggregate(normalized)
	if err != nil {
		return nil, err
	}

	result.Diagnostics.InputRows = fstats.Input
	result.Diagnostics.MatchedRows = fstats.Matched
	result.Diagnostics.UniqueRows = fstats.Unique
	result.Diagnostics.DuplicateRows = fstats.Duplicates

	return result, nil
}

func (a *Analyzer) aggregate(trades []domain.NormalizedTrade) (*domain.AnalysisResult, error) {
	var (
		overall  domain.WinLoss
		high     domain.WinLoss
		low      domain.WinLoss
		hours    = newBuckets()
		dates    = newBuckets()
		combos   = newBuckets()
		months   = newBuckets()
		amounts  = newBuckets()
		profits  = make([]float64, 0, len(trades))
		gains    = make([]float64, 0, len(trades))
		losses   = make([]float64, 0, len(trades))
		invested = make([]float64, 0, len(trades))
		instants = make([]float64, 0, len(trades))
		diag     domain.Diagnostics
	)

	for _, t := range trades {
		if t.TimestampValid {
			instants = append(instants, float64(t.Instant.Unix()))
		} else {
			diag.InvalidTimestampRows++
		}

		if !t.Outcome.IsDetermined() {
			diag.UndeterminedRows++
			continue
		}

		win := t.Outcome == domain.OutcomeWin
		profit := Profit(win, t.PurchaseAmount, t.Payout)
		purchase := ParseAmount(t.PurchaseAmount)

		count(&overall, win)
		if t.Direction == domain.DirectionHigh {
			count(&high, win)
		} else {
			count(&low, win)
		}

		hours.add(t.Hour+hourSuffix, win, 0)
		dates.add(t.Date, win, 0)
		combos.add(t.Date+" "+t.Hour+hourSuffix, win, 0)
		amounts.add(domain.Text(purchase), win, 0)
		months.add(monthKey(t.Date), win, profit)

		profits = append(profits, profit)
		invested = append(invested, purchase)
		if win {
			gains = append(gains, profit)
		} else {
			losses = append(losses, profit)
		}
	}

	if len(instants) == 0 {
		return nil, ErrNoValidDates
	}

	totalProfit := floats.Sum(profits)
	totalInvested := floats.Sum(invested)

	summary := domain.Summary{
		Total:           overall.Total,
		Wins:            overall.Wins,
		Losses:          overall.Losses,
		WinRate:         optionalPercent(overall.Wins, overall.Total),
		StartTime:       time.Unix(int64(floats.Min(instants)), 0).In(a.opts.Location),
		EndTime:         time.Unix(int64(floats.Max(instants)), 0).In(a.opts.Location),
		TotalProfit:     totalProfit,
		AverageProfit:   ratio(sumPositive(gains), overall.Wins),
		AverageLoss:     ratio(sumNegative(losses), overall.Losses),
		TotalInvestment: totalInvested,
		TotalPayout:     floats.Sum(gains),
		AverageAmount:   ratio(totalInvested, overall.Total),
		ExpectedValue:   ratio(totalProfit, overall.Total),
	}

	hourly := make([]domain.HourlyStats, 0, hours.len())
	hours.each(func(key string, wl domain.WinLoss, _ float64) {
		hourly = append(hourly, domain.HourlyStats{Hour: key, WinLoss: wl})
	})

	dateStats := make([]domain.DateStats, 0, dates.len())
	dates.each(func(key string, wl domain.WinLoss, _ float64) {
		dateStats = append(dateStats, domain.DateStats{Date: key, WinLoss: wl})
	})

	dateHours := make([]domain.DateHourStats, 0, combos.len())
	combos.each(func(key string, wl domain.WinLoss, _ float64) {
		if wl.Total >= a.opts.MinDateHourTrades {
			dateHours = append(dateHours, domain.DateHourStats{Key: key, WinLoss: wl})
		}
	})

	monthly := make([]domain.MonthlyStats, 0, months.len())
	months.each(func(key string, wl domain.WinLoss, profit float64) {
		monthly = append(monthly, domain.MonthlyStats{Month: key, WinLoss: wl, TotalProfit: profit})
	})

	amountStats := make([]domain.AmountStats, 0, amounts.len())
	amounts.each(func(key string, wl domain.WinLoss, _ float64) {
		amountStats = append(amountStats, domain.AmountStats{Amount: key, WinLoss: wl})
	})

	return &domain.AnalysisResult{
		Summary: summary,
		HighLow: []domain.HighLowStats{
			directionStats(domain.DirectionHigh, high),
			directionStats(domain.DirectionLow, low),
		},
		Hourly:      hourly,
		Dates:       dateStats,
		DateHours:   dateHours,
		Strategy:    RankHours(hourly, a.opts.Strategy),
		Monthly:     monthly,
		Amounts:     amountStats,
		Diagnostics: diag,
	}, nil
}

// buckets is an insertion-ordered group of win/loss counters
type buckets struct {
	index  map[string]int
	keys   []string
	counts []domain.WinLoss
	profit []float64
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int)}
}

func (b *buckets) add(key string, win bool, profit float64) {
	i, ok := b.index[key]
	if !ok {
		i = len(b.keys)
		b.index[key] = i
		b.keys = append(b.keys, key)
		b.counts = append(b.counts, domain.WinLoss{})
		b.profit = append(b.profit, 0)
	}
	count(&b.counts[i], win)
	b.profit[i] += profit
}

func (b *buckets) len() int {
	return len(b.keys)
}

// each visits buckets in first-seen order with their win rate filled in
func (b *buckets) each(fn func(key string, wl domain.WinLoss, profit float64)) {
	for i, key := range b.keys {
		wl := b.counts[i]
		wl.WinRate = percent(wl.Wins, wl.Total)
		fn(key, wl, b.profit[i])
	}
}

func count(wl *domain.WinLoss, win bool) {
	if win {
		wl.Wins++
	} else {
		wl.Losses++
	}
	wl.Total++
}

func directionStats(name domain.Direction, wl domain.WinLoss) domain.HighLowStats {
	return domain.HighLowStats{
		Name:    name,
		Wins:    wl.Wins,
		Losses:  wl.Losses,
		Total:   wl.Total,
		WinRate: optionalPercent(wl.Wins, wl.Total),
	}
}

// monthKey labels the civil month of a YYYY-MM-DD date
func monthKey(date string) string {
	d, _ := time.Parse(DateLayout, date)
	return fmt.Sprintf("%d年%d月", d.Year(), int(d.Month()))
}

// percent is wins/total*100, zero for an empty bucket
func percent(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

func optionalPercent(wins, total int) *float64 {
	if total == 0 {
		return nil
	}
	v := percent(wins, total)
	return &v
}

// ratio is num/den, nil when den is zero
func ratio(num float64, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := num / float64(den)
	return &v
}

func sumPositive(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		if x > 0 {
			s += x
		}
	}
	return s
}

func sumNegative(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		if x < 0 {
			s += x
		}
	}
	return s
}
