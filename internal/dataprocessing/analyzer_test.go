package dataprocessing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/pkg/contracts/domain"
)

func TestAnalyzeScenario(t *testing.T) {
	result, err := Analyze(scenarioRecords(t))
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 7, s.Wins)
	assert.Equal(t, 3, s.Losses)
	require.NotNil(t, s.WinRate)
	assert.InDelta(t, 70.0, *s.WinRate, 1e-9)

	require.Len(t, result.HighLow, 2)
	high, low := result.HighLow[0], result.HighLow[1]
	assert.Equal(t, domain.DirectionHigh, high.Name)
	assert.Equal(t, 8, high.Total)
	assert.Equal(t, 6, high.Wins)
	assert.Equal(t, 2, high.Losses)
	require.NotNil(t, high.WinRate)
	assert.InDelta(t, 75.0, *high.WinRate, 1e-9)

	assert.Equal(t, domain.DirectionLow, low.Name)
	assert.Equal(t, 2, low.Total)
	assert.Equal(t, 1, low.Wins)
	require.NotNil(t, low.WinRate)
	assert.InDelta(t, 50.0, *low.WinRate, 1e-9)

	assert.Equal(t, domain.Diagnostics{
		InputRows:     12,
		MatchedRows:   11,
		UniqueRows:    10,
		DuplicateRows: 1,
	}, result.Diagnostics)
}

func TestAnalyzeBuckets(t *testing.T) {
	result, err := Analyze(scenarioRecords(t))
	require.NoError(t, err)

	hours := make([]string, 0, len(result.Hourly))
	for _, h := range result.Hourly {
		hours = append(hours, h.Hour)
	}
	assert.Equal(t, []string{"09時台", "10時台", "11時台", "12時台"}, hours)
	assert.Equal(t, 2, result.Hourly[0].Wins)
	assert.Equal(t, 1, result.Hourly[0].Losses)
	assert.Equal(t, 3, result.Hourly[0].Total)
	assert.InDelta(t, 200.0/3, result.Hourly[0].WinRate, 1e-9)
	assert.Equal(t, domain.WinLoss{Wins: 3, Losses: 0, Total: 3, WinRate: 100}, result.Hourly[2].WinLoss)

	require.Len(t, result.Dates, 3)
	assert.Equal(t, "2024-03-15", result.Dates[0].Date)
	assert.Equal(t, domain.WinLoss{Wins: 3, Losses: 1, Total: 4, WinRate: 75}, result.Dates[0].WinLoss)
	assert.Equal(t, "2024-03-16", result.Dates[1].Date)
	assert.Equal(t, "2024-04-01", result.Dates[2].Date)

	require.Len(t, result.DateHours, 1)
	assert.Equal(t, "2024-03-15 09時台", result.DateHours[0].Key)
	assert.Equal(t, 3, result.DateHours[0].Total)

	require.Len(t, result.Monthly, 2)
	assert.Equal(t, "2024年3月", result.Monthly[0].Month)
	assert.Equal(t, 7, result.Monthly[0].Total)
	assert.InDelta(t, 5.0/7*100, result.Monthly[0].WinRate, 1e-9)
	assert.InDelta(t, 7750.0, result.Monthly[0].TotalProfit, 1e-9)
	assert.Equal(t, "2024年4月", result.Monthly[1].Month)
	assert.Equal(t, 3, result.Monthly[1].Total)
	assert.InDelta(t, 2900.0, result.Monthly[1].TotalProfit, 1e-9)

	require.Len(t, result.Amounts, 1)
	assert.Equal(t, "1000", result.Amounts[0].Amount)
	assert.Equal(t, 10, result.Amounts[0].Total)

	// no hour has five trades
	assert.Empty(t, result.Strategy.TopHours)
	assert.Empty(t, result.Strategy.WorstHours)
}

func TestAnalyzeFinancials(t *testing.T) {
	result, err := Analyze(scenarioRecords(t))
	require.NoError(t, err)

	s := result.Summary
	assert.InDelta(t, 10650.0, s.TotalProfit, 1e-9)
	require.NotNil(t, s.AverageProfit)
	assert.InDelta(t, 1950.0, *s.AverageProfit, 1e-9)
	require.NotNil(t, s.AverageLoss)
	assert.InDelta(t, -1000.0, *s.AverageLoss, 1e-9)
	assert.InDelta(t, 10000.0, s.TotalInvestment, 1e-9)
	assert.InDelta(t, 13650.0, s.TotalPayout, 1e-9)
	require.NotNil(t, s.AverageAmount)
	assert.InDelta(t, 1000.0, *s.AverageAmount, 1e-9)
	require.NotNil(t, s.ExpectedValue)
	assert.InDelta(t, 1065.0, *s.ExpectedValue, 1e-9)

	loc := TokyoLocation()
	assert.True(t, s.StartTime.Equal(time.Date(2024, 3, 15, 9, 5, 30, 0, loc)))
	assert.True(t, s.EndTime.Equal(time.Date(2024, 4, 1, 12, 0, 0, 0, loc)))
}

func TestAnalyzeBucketInvariants(t *testing.T) {
	var records []domain.Record
	directions := []string{"HIGH", "LOW", "HIGH", "", "LOW"}
	for i := 0; i < 60; i++ {
		date := fmt.Sprintf("%02d/05/2024 %d:%02d:00", i%4+1, i%7+8, i%60)
		records = append(records, trade(float64(i), date, "BTC/JPY", directions[i%len(directions)], 100, float64(98+i%5)))
	}

	result, err := Analyze(records)
	require.NoError(t, err)

	check := func(name string, wl domain.WinLoss) {
		assert.Equal(t, wl.Total, wl.Wins+wl.Losses, name)
		assert.Positive(t, wl.Total, name)
		assert.GreaterOrEqual(t, wl.WinRate, 0.0, name)
		assert.LessOrEqual(t, wl.WinRate, 100.0, name)
	}
	for _, b := range result.Hourly {
		check(b.Hour, b.WinLoss)
	}
	for _, b := range result.Dates {
		check(b.Date, b.WinLoss)
	}
	for _, b := range result.DateHours {
		check(b.Key, b.WinLoss)
		assert.GreaterOrEqual(t, b.Total, 3, b.Key)
	}
	for _, b := range result.Monthly {
		check(b.Month, b.WinLoss)
	}
	for _, b := range result.Strategy.TopHours {
		assert.GreaterOrEqual(t, b.Total, 5)
	}
	assert.LessOrEqual(t, len(result.Strategy.TopHours), 3)
	assert.LessOrEqual(t, len(result.Strategy.WorstHours), 3)

	assert.Equal(t, result.Summary.Total, result.Summary.Wins+result.Summary.Losses)
	assert.Equal(t, 12, result.Diagnostics.UndeterminedRows)
	assert.Equal(t, 48, result.Summary.Total)
}

func TestAnalyzeUndeterminedExcluded(t *testing.T) {
	records := []domain.Record{
		trade(float64(1), "15/03/2024 09:00:00", "BTC/JPY", "HIGH", 100, 101),
		trade(float64(2), "10/03/2024 08:00:00", "BTC/JPY", "SIDEWAYS", 100, 101),
	}

	result, err := Analyze(records)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Total)
	assert.Equal(t, 1, result.Diagnostics.UndeterminedRows)
	require.Len(t, result.Hourly, 1)
	assert.Equal(t, "09時台", result.Hourly[0].Hour)
	// the undetermined trade still opens the date range
	assert.Equal(t, 10, result.Summary.StartTime.Day())
}

func TestAnalyzeMalformedTimeKeepsBuckets(t *testing.T) {
	records := append(scenarioRecords(t),
		trade(float64(20), "01/04/2024 9:61", "BTC/JPY", "HIGH", 100, 101),
		trade(float64(21), "16/03/2024 14:30:60", "BTC/JPY", "HIGH", 100, 101),
	)

	result, err := Analyze(records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Diagnostics.InvalidTimestampRows)

	hours := make(map[string]int)
	for _, b := range result.Hourly {
		hours[b.Hour] = b.Total
	}
	assert.NotContains(t, hours, "00時台")
	assert.Equal(t, 1, hours["14時台"])

	monthly := 0
	for _, b := range result.Monthly {
		monthly += b.Total
	}
	assert.Equal(t, result.Summary.Total, monthly)
	require.Len(t, result.Monthly, 2)
	assert.Equal(t, 4, result.Monthly[1].Total)
}

func TestAnalyzeDivisionByZero(t *testing.T) {
	records := []domain.Record{
		trade(float64(1), "15/03/2024 09:00:00", "BTC/JPY", "HIGH", 100, 101),
		trade(float64(2), "15/03/2024 10:00:00", "BTC/JPY", "HIGH", 100, 102),
	}

	result, err := Analyze(records)
	require.NoError(t, err)

	assert.Nil(t, result.Summary.AverageLoss)
	require.NotNil(t, result.Summary.AverageProfit)
	assert.Nil(t, result.HighLow[1].WinRate)
	assert.Zero(t, result.HighLow[1].Total)
}

func TestAnalyzeOnlyUndetermined(t *testing.T) {
	records := []domain.Record{
		trade(float64(1), "15/03/2024 09:00:00", "BTC/JPY", "", 100, 101),
	}

	result, err := Analyze(records)
	require.NoError(t, err)

	s := result.Summary
	assert.Zero(t, s.Total)
	assert.Nil(t, s.WinRate)
	assert.Nil(t, s.AverageProfit)
	assert.Nil(t, s.AverageLoss)
	assert.Nil(t, s.AverageAmount)
	assert.Nil(t, s.ExpectedValue)
	assert.Empty(t, result.Hourly)
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("no matching records", func(t *testing.T) {
		records := []domain.Record{trade(float64(1), "15/03/2024", "ETH/JPY", "HIGH", 1, 2)}

		result, err := Analyze(records)
		assert.ErrorIs(t, err, ErrNoMatchingRecords)
		assert.Nil(t, result)
	})

	t.Run("one invalid date aborts", func(t *testing.T) {
		records := scenarioRecords(t)
		records = append(records, trade(float64(99), "31/02/2024 09:00", "BTC/JPY", "HIGH", 1, 2))

		result, err := Analyze(records)
		require.Error(t, err)
		assert.Nil(t, result)

		var dateErr *InvalidDateError
		require.True(t, errors.As(err, &dateErr))
		assert.Equal(t, "31/02/2024 09:00", dateErr.Text)
		assert.True(t, IsAnalysisError(err))
	})

	t.Run("no valid timestamps", func(t *testing.T) {
		records := []domain.Record{
			trade(float64(1), "15/03/2024 24:00:00", "BTC/JPY", "HIGH", 1, 2),
			trade(float64(2), "15/03/2024 xx", "BTC/JPY", "LOW", 2, 1),
		}

		result, err := Analyze(records)
		assert.ErrorIs(t, err, ErrNoValidDates)
		assert.Nil(t, result)
	})
}

func TestAnalyzerOptions(t *testing.T) {
	records := []domain.Record{
		trade(float64(1), "15/03/2024 09:00:00", "ETH/JPY", "HIGH", 100, 101),
		trade(float64(2), "15/03/2024 09:10:00", "ETH/JPY", "HIGH", 100, 99),
		trade(float64(3), "15/03/2024 09:20:00", "BTC/JPY", "HIGH", 100, 101),
	}

	analyzer := NewAnalyzer(AnalyzerOptions{TargetSymbol: "ETH", MinDateHourTrades: 2})
	result, err := analyzer.Analyze(records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Total)
	require.Len(t, result.DateHours, 1)
	assert.Equal(t, "2024-03-15 09時台", result.DateHours[0].Key)
	assert.Equal(t, StrategyRules, analyzer.Options().Strategy)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	first, err := Analyze(scenarioRecords(t))
	require.NoError(t, err)
	second, err := Analyze(scenarioRecords(t))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
