// Package dataprocessing turns binary-options trade history exports into
// aggregated win/loss statistics.
//
// # Architecture
//
// The engine is a pure, single-pass pipeline:
//
//  1. Filter: keeps rows of the target symbol and drops duplicate trade numbers
//  2. Normalizer: reads day/month/year date text into a canonical timestamp
//  3. Classifier: decides win, loss or undetermined from direction and rates
//  4. Aggregator: builds the overall, direction, hour, date, date×hour,
//     month and amount buckets
//  5. Strategy: ranks hour buckets by win rate
//
// Intake lives next to the engine but outside it. Parser reads CSV and XLSX
// exports into records, and Loader parses several files concurrently and
// concatenates them in submission order.
//
// # Usage
//
//	records, files, err := dataprocessing.NewLoader(logger, 3).Load(ctx, sources)
//	if err != nil {
//	    return err
//	}
//	result, err := dataprocessing.NewAnalyzer(dataprocessing.DefaultAnalyzerOptions()).Analyze(records)
//
// # Error Handling
//
// Analyze either returns a complete result or one of ErrNoMatchingRecords,
// ErrNoValidDates or *InvalidDateError. There are no partial results.
package dataprocessing
