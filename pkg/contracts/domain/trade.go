package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names used by the broker's trade history export
const (
	ColumnTradeID        = "取引番号"
	ColumnDate           = "日付"
	ColumnSymbol         = "取引銘柄"
	ColumnOption         = "取引オプション"
	ColumnDirection      = "HIGH/LOW"
	ColumnReferenceRate  = "レート"
	ColumnExpiry         = "終了時刻"
	ColumnSettlementRate = "判定レート"
	ColumnPurchaseAmount = "購入金額"
	ColumnPayout         = "ペイアウト"
)

// knownColumns are the fields NewRawTrade lifts out of a record
var knownColumns = map[string]struct{}{
	ColumnTradeID:        {},
	ColumnDate:           {},
	ColumnSymbol:         {},
	ColumnDirection:      {},
	ColumnReferenceRate:  {},
	ColumnSettlementRate: {},
	ColumnPurchaseAmount: {},
	ColumnPayout:         {},
}

// Direction is the predicted price movement of a binary option
type Direction string

const (
	DirectionHigh Direction = "HIGH"
	DirectionLow  Direction = "LOW"
)

// IsKnown reports whether the direction is HIGH or LOW
func (d Direction) IsKnown() bool {
	return d == DirectionHigh || d == DirectionLow
}

// Outcome is the classification result of a single trade
type Outcome string

const (
	OutcomeWin          Outcome = "win"
	OutcomeLoss         Outcome = "loss"
	OutcomeUndetermined Outcome = "undetermined"
)

// Label returns the Japanese label shown in reports
func (o Outcome) Label() string {
	switch o {
	case OutcomeWin:
		return "勝ち"
	case OutcomeLoss:
		return "負け"
	default:
		return "不明"
	}
}

// IsDetermined reports whether the outcome counts towards win/loss totals
func (o Outcome) IsDetermined() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// Record is one header-keyed row as produced by a tabular parser.
// Values are float64, string, bool or nil.
type Record map[string]any

// RawTrade is a record coerced into the fields the engine needs.
// Unknown columns are preserved in Extras.
type RawTrade struct {
	ID             string         `json:"id"`
	DateText       string         `json:"date_text"`
	Symbol         string         `json:"symbol"`
	Direction      Direction      `json:"direction"`
	ReferenceRate  float64        `json:"reference_rate"`
	SettlementRate float64        `json:"settlement_rate"`
	PurchaseAmount string         `json:"purchase_amount"`
	Payout         string         `json:"payout"`
	Extras         map[string]any `json:"extras,omitempty"`
}

// NewRawTrade coerces a loosely typed record. Missing fields become
// empty text or zero.
func NewRawTrade(rec Record) RawTrade {
	trade := RawTrade{
		ID:             Text(rec[ColumnTradeID]),
		DateText:       Text(rec[ColumnDate]),
		Symbol:         Text(rec[ColumnSymbol]),
		Direction:      Direction(strings.TrimSpace(Text(rec[ColumnDirection]))),
		ReferenceRate:  Number(rec[ColumnReferenceRate]),
		SettlementRate: Number(rec[ColumnSettlementRate]),
		PurchaseAmount: Text(rec[ColumnPurchaseAmount]),
		Payout:         Text(rec[ColumnPayout]),
	}

	for k, v := range rec {
		if _, ok := knownColumns[k]; ok {
			continue
		}
		if trade.Extras == nil {
			trade.Extras = make(map[string]any)
		}
		trade.Extras[k] = v
	}

	return trade
}

// NormalizedTrade is a RawTrade with its canonical timestamp, buckets and outcome
type NormalizedTrade struct {
	RawTrade
	Timestamp string    `json:"timestamp"`
	Date      string    `json:"date"`
	Hour      string    `json:"hour"`
	Instant   time.Time `json:"instant"`
	// TimestampValid is false when the time component could not be read.
	// Such trades keep their buckets but are left out of the date range
	// and the monthly breakdown.
	TimestampValid bool    `json:"timestamp_valid"`
	Outcome        Outcome `json:"outcome"`
}

// Text renders a cell value as text. Integral numbers print without a
// fractional part so that 1 and "1" identify the same trade.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("02/01/2006 15:04:05")
	default:
		return ""
	}
}

// Number reads a cell value as a float. Text is parsed after removing
// thousands separators; anything unreadable is zero.
func Number(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
