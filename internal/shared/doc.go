// Package shared holds helpers used across TradePulse packages that do not
// belong to a single layer.
//
// The testutil subpackage provides a capturing slog handler and trade history
// fixtures for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc, err := services.NewAnalysisService(cfg.Analysis, logger)
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "analysis completed")
package shared
