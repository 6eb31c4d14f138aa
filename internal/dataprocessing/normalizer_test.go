package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/pkg/contracts/domain"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		timestamp string
		date      string
		hour      string
		timeValid bool
	}{
		{"day month year with time", "15/03/2024 09:05:30", "2024-03-15 09:05:30", "2024-03-15", "09", true},
		{"unpadded pieces", "5/3/2024 9:5:7", "2024-03-05 09:05:07", "2024-03-05", "09", true},
		{"date only", "15/03/2024", "2024-03-15 00:00:00", "2024-03-15", "00", true},
		{"spreadsheet artifacts", `="01/12/2023 23:59:59"`, "2023-12-01 23:59:59", "2023-12-01", "23", true},
		{"hours and minutes", "15/03/2024 14:30", "2024-03-15 14:30:00", "2024-03-15", "14", true},
		{"surrounding space", "  15/03/2024   08:00:00 ", "2024-03-15 08:00:00", "2024-03-15", "08", true},
		{"trailing zone offset", "15/03/2024 09:05:30 +0900", "2024-03-15 09:05:30", "2024-03-15", "09", true},
		{"unreadable minute keeps hour", "15/03/2024 9:61", "2024-03-15 09:61", "2024-03-15", "09", false},
		{"unreadable second keeps hour", "15/03/2024 14:30:60", "2024-03-15 14:30:60", "2024-03-15", "14", false},
		{"unreadable hour", "15/03/2024 25:00:00", "2024-03-15 25:00:00", "2024-03-15", "00", false},
		{"garbage time", "15/03/2024 noon", "2024-03-15 noon", "2024-03-15", "00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nd, err := NormalizeDate(tt.text)
			require.NoError(t, err)

			assert.Equal(t, tt.timestamp, nd.Timestamp)
			assert.Equal(t, tt.date, nd.Date)
			assert.Equal(t, tt.hour, nd.Hour)
			assert.Equal(t, tt.timeValid, nd.TimeValid)
		})
	}
}

func TestNormalizeDateInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"month out of range", "15/13/2024"},
		{"day out of range", "32/01/2024"},
		{"not a leap year", "29/02/2023"},
		{"month first iso", "2024-03-15 09:00:00"},
		{"two pieces", "15/03"},
		{"letters", "aa/bb/cccc"},
		{"two digit year", "15/3/24 09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeDate(tt.text)
			require.Error(t, err)

			var dateErr *InvalidDateError
			require.True(t, errors.As(err, &dateErr))
			assert.Equal(t, tt.text, dateErr.Text)
		})
	}
}

func TestNormalizeDateLeapDay(t *testing.T) {
	nd, err := NormalizeDate("29/02/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", nd.Date)
}

func TestNormalize(t *testing.T) {
	loc := TokyoLocation()
	raw := domain.NewRawTrade(trade(float64(1), "15/03/2024 09:05:30", "BTC/JPY", "HIGH", 100, 101))

	nt, err := Normalize(raw, loc)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15 09:05:30", nt.Timestamp)
	assert.Equal(t, "2024-03-15", nt.Date)
	assert.Equal(t, "09", nt.Hour)
	assert.True(t, nt.TimestampValid)

	want := time.Date(2024, 3, 15, 0, 5, 30, 0, time.UTC)
	assert.True(t, nt.Instant.Equal(want), "instant %s", nt.Instant)
}

func TestNormalizeInvalidTimeHasNoInstant(t *testing.T) {
	raw := domain.NewRawTrade(trade(float64(1), "15/03/2024 9:61", "BTC/JPY", "HIGH", 100, 101))

	nt, err := Normalize(raw, TokyoLocation())
	require.NoError(t, err)

	assert.False(t, nt.TimestampValid)
	assert.True(t, nt.Instant.IsZero())
	assert.Equal(t, "09", nt.Hour)
	assert.Equal(t, "2024-03-15", nt.Date)
}
