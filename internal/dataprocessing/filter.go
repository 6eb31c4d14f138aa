package dataprocessing

import (
	"strings"

	"tradepulse/pkg/contracts/domain"
)

// DefaultTargetSymbol is the ticker substring the filter keeps
const DefaultTargetSymbol = "BTC"

// FilterStats counts rows at each filter step
type FilterStats struct {
	Input      int
	Matched    int
	Unique     int
	Duplicates int
}

// FilterRecords keeps records whose symbol contains symbol and removes
// duplicate trade numbers. The first occurrence in input order wins.
func FilterRecords(records []domain.Record, symbol string) ([]domain.RawTrade, FilterStats, error) {
	stats := FilterStats{Input: len(records)}

	matched := make([]domain.RawTrade, 0, len(records))
	for _, rec := range records {
		if !strings.Contains(domain.Text(rec[domain.ColumnSymbol]), symbol) {
			continue
		}
		matched = append(matched, domain.NewRawTrade(rec))
	}
	stats.Matched = len(matched)

	if len(matched) == 0 {
		return nil, stats, ErrNoMatchingRecords
	}

	// rows without a trade number share the empty key, so only the first survives
	seen := make(map[string]struct{}, len(matched))
	unique := matched[:0]
	for _, trade := range matched {
		if _, dup := seen[trade.ID]; dup {
			continue
		}
		seen[trade.ID] = struct{}{}
		unique = append(unique, trade)
	}

	stats.Unique = len(unique)
	stats.Duplicates = stats.Matched - stats.Unique

	return unique, stats, nil
}
