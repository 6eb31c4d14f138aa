package domain

import (
	"time"
)

// WinLoss holds the counters shared by every aggregation bucket.
// Total is always Wins + Losses.
type WinLoss struct {
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

// Stats returns the bucket counters. Types embedding WinLoss get it for free,
// which is what the ranking helpers rely on.
func (w WinLoss) Stats() WinLoss {
	return w
}

// HourlyStats is a per-hour bucket labelled "<hour>時台"
type HourlyStats struct {
	Hour string `json:"hour"`
	WinLoss
}

// DateStats is a per-calendar-day bucket keyed YYYY-MM-DD
type DateStats struct {
	Date string `json:"date"`
	WinLoss
}

// DateHourStats is a composite bucket keyed "<date> <hour>時台"
type DateHourStats struct {
	Key string `json:"key"`
	WinLoss
}

// AmountStats groups trades by purchase amount
type AmountStats struct {
	Amount string `json:"amount"`
	WinLoss
}

// MonthlyStats is a per-month bucket keyed "<year>年<month>月"
type MonthlyStats struct {
	Month string `json:"month"`
	WinLoss
	TotalProfit float64 `json:"total_profit"`
}

// HighLowStats is the per-direction split. WinRate is nil when no trade
// in that direction was determined.
type HighLowStats struct {
	Name    Direction `json:"name"`
	Wins    int       `json:"wins"`
	Losses  int       `json:"losses"`
	Total   int       `json:"total"`
	WinRate *float64  `json:"win_rate"`
}

// Summary holds the overall figures. Ratios whose denominator is zero are nil.
type Summary struct {
	Total           int       `json:"total"`
	Wins            int       `json:"wins"`
	Losses          int       `json:"losses"`
	WinRate         *float64  `json:"win_rate"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	TotalProfit     float64   `json:"total_profit"`
	AverageProfit   *float64  `json:"average_profit"`
	AverageLoss     *float64  `json:"average_loss"`
	TotalInvestment float64   `json:"total_investment"`
	TotalPayout     float64   `json:"total_payout"`
	AverageAmount   *float64  `json:"average_amount"`
	ExpectedValue   *float64  `json:"expected_value"`
}

// Strategy lists the best and worst hours of day
type Strategy struct {
	TopHours   []HourlyStats `json:"top_hours"`
	WorstHours []HourlyStats `json:"worst_hours"`
}

// Diagnostics counts what happened to the input rows during one analysis
type Diagnostics struct {
	InputRows            int `json:"input_rows"`
	MatchedRows          int `json:"matched_rows"`
	UniqueRows           int `json:"unique_rows"`
	DuplicateRows        int `json:"duplicate_rows"`
	UndeterminedRows     int `json:"undetermined_rows"`
	InvalidTimestampRows int `json:"invalid_timestamp_rows"`
}

// AnalysisResult is the complete output of one engine run.
// All bucket slices are in first-seen order.
type AnalysisResult struct {
	Summary     Summary         `json:"summary"`
	HighLow     []HighLowStats  `json:"high_low"`
	Hourly      []HourlyStats   `json:"hourly"`
	Dates       []DateStats     `json:"date_stats"`
	DateHours   []DateHourStats `json:"date_hour_stats"`
	Strategy    Strategy        `json:"strategy"`
	Monthly     []MonthlyStats  `json:"monthly_analysis"`
	Amounts     []AmountStats   `json:"amount_distribution"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// DateRange is the display form of the summary's first and last trade
type DateRange struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}
