// Package services implements the business logic layer of TradePulse.
// It sits between the HTTP handlers or CLI commands and the analysis engine,
// so the same rules apply whichever surface started a run.
//
// # Available Services
//
//	- AnalysisService: loads trade history files, runs the engine, publishes
//	  progress over the push hub and renders workbook or CSV exports
//	- HealthService: health, readiness and liveness checks plus build info
//
// # Analysis Flow
//
//	svc, err := services.NewAnalysisService(cfg.Analysis, logger,
//	    services.WithBroadcaster(hub),
//	    services.WithMetrics(metrics),
//	)
//	report, err := svc.Analyze(ctx, []dataprocessing.Source{
//	    dataprocessing.FileSource("history.csv"),
//	})
//	file, err := svc.Export(ctx, report.Result, api.ExportRequest{Format: api.FormatXLSX}, w)
//
// Every analysis gets an id that appears in its log lines and in each
// file_status, analysis_complete or analysis_failed event.
//
// # Error Handling
//
// Engine and loader failures are returned as *errors.APIError so handlers can
// render them without inspecting engine types:
//
//	- NO_FILES, PARSE_FAILED and TOO_MANY_FILES for intake problems
//	- NO_MATCHING_RECORDS, NO_VALID_DATES and INVALID_DATE for empty or bad data
//	- VALIDATION_FAILED for unknown export formats or tables
//	- EXPORT_FAILED when a writer fails
//
// Context cancellation is returned unchanged.
//
// # Testing
//
// The push hub is replaced with a testify mock of websocket.Broadcaster:
//
//	hub := &mockBroadcaster{}
//	hub.On("Broadcast", mock.Anything, events.MessageTypeAnalysisComplete, mock.Anything).Return()
//	svc, _ := NewAnalysisService(config.Default().Analysis, logger, WithBroadcaster(hub))
package services
