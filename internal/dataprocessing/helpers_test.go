package dataprocessing

import (
	"testing"

	"tradepulse/pkg/contracts/domain"
)

// trade builds a broker export row
func trade(id any, date, symbol, direction string, reference, settlement float64) domain.Record {
	return domain.Record{
		domain.ColumnTradeID:        id,
		domain.ColumnDate:           date,
		domain.ColumnSymbol:         symbol,
		domain.ColumnDirection:      direction,
		domain.ColumnReferenceRate:  reference,
		domain.ColumnSettlementRate: settlement,
		domain.ColumnPurchaseAmount: "¥1,000",
		domain.ColumnPayout:         "¥1,950",
	}
}

// scenarioRecords holds 10 unique BTC trades (6 HIGH wins, 2 HIGH losses,
// 1 LOW win, 1 LOW loss), one ETH trade and one duplicate trade number.
func scenarioRecords(t *testing.T) []domain.Record {
	t.Helper()
	return []domain.Record{
		trade(float64(1), "15/03/2024 09:05:30", "BTC/JPY", "HIGH", 100, 101),
		trade(float64(2), "15/03/2024 09:15:00", "BTC/JPY", "HIGH", 100, 102),
		trade(float64(3), "15/03/2024 09:45:10", "BTC/JPY", "HIGH", 100, 99),
		trade(float64(4), "15/03/2024 10:00:00", "BTC/JPY", "HIGH", 100, 105),
		trade(float64(11), "15/03/2024 10:10:00", "ETH/JPY", "HIGH", 100, 101),
		trade(float64(5), "16/03/2024 10:30:00", "BTC/JPY", "HIGH", 100, 100),
		trade(float64(6), "16/03/2024 10:45:00", "BTC/JPY", "HIGH", 100, 103),
		trade(float64(7), "16/03/2024 11:00:00", "BTC/JPY", "HIGH", 100, 104),
		trade(float64(1), "16/03/2024 11:10:00", "BTC/JPY", "LOW", 100, 101),
		trade(float64(8), "01/04/2024 11:30:00", "BTC/JPY", "HIGH", 100, 101),
		trade(float64(9), "01/04/2024 11:45:00", "BTC/JPY", "LOW", 100, 99),
		trade(float64(10), "01/04/2024 12:00:00", "BTC/JPY", "LOW", 100, 100),
	}
}
