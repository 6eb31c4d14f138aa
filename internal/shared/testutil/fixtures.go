package testutil

import (
	"fmt"
	"strings"

	"tradepulse/pkg/contracts/domain"
)

// TradeHeader is the column order used by the CSV fixtures
var TradeHeader = []string{
	domain.ColumnTradeID,
	domain.ColumnDate,
	domain.ColumnSymbol,
	domain.ColumnDirection,
	domain.ColumnReferenceRate,
	domain.ColumnSettlementRate,
	domain.ColumnPurchaseAmount,
	domain.ColumnPayout,
}

// TradeRow is one line of a trade history fixture
type TradeRow struct {
	ID         int
	Date       string
	Symbol     string
	Direction  string
	Reference  float64
	Settlement float64
	Purchase   string
	Payout     string
}

// Win returns a winning BTC HIGH trade at date
func Win(id int, date string) TradeRow {
	return TradeRow{ID: id, Date: date, Symbol: "BTC/JPY", Direction: "HIGH", Reference: 100, Settlement: 101, Purchase: "¥1,000", Payout: "¥1,950"}
}

// Loss returns a losing BTC HIGH trade at date
func Loss(id int, date string) TradeRow {
	return TradeRow{ID: id, Date: date, Symbol: "BTC/JPY", Direction: "HIGH", Reference: 100, Settlement: 99, Purchase: "¥1,000", Payout: "¥0"}
}

// Record converts the row to the map shape the analysis engine consumes
func (r TradeRow) Record() domain.Record {
	return domain.Record{
		domain.ColumnTradeID:        float64(r.ID),
		domain.ColumnDate:           r.Date,
		domain.ColumnSymbol:         r.Symbol,
		domain.ColumnDirection:      r.Direction,
		domain.ColumnReferenceRate:  r.Reference,
		domain.ColumnSettlementRate: r.Settlement,
		domain.ColumnPurchaseAmount: r.Purchase,
		domain.ColumnPayout:         r.Payout,
	}
}

// Records converts rows to engine records
func Records(rows ...TradeRow) []domain.Record {
	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return records
}

// CSV renders rows as a broker-style export with a header line
func CSV(rows ...TradeRow) string {
	var b strings.Builder
	b.WriteString(strings.Join(TradeHeader, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%g,%g,%q,%q\n",
			r.ID, r.Date, r.Symbol, r.Direction, r.Reference, r.Settlement, r.Purchase, r.Payout)
	}
	return b.String()
}

// SampleHistory returns a small mixed history: 4 wins and 2 losses over two days
func SampleHistory() []TradeRow {
	return []TradeRow{
		Win(1, "15/03/2024 09:05:00"),
		Win(2, "15/03/2024 09:20:00"),
		Loss(3, "15/03/2024 10:00:00"),
		Win(4, "16/03/2024 09:10:00"),
		Loss(5, "16/03/2024 11:30:00"),
		Win(6, "16/03/2024 11:45:00"),
	}
}
