// Package http implements the HTTP handlers of the TradePulse web service.
// Handlers stay thin: they parse the request, call a service and render the
// response, leaving analysis rules to the services package.
//
// # Routes
//
//	POST /api/analyses                  multipart "files", returns the analysis JSON
//	POST /api/analyses/export           analysis result JSON body, returns a download
//	POST /api/analyses/export/upload    multipart "files", analyzes and downloads in one step
//	GET  /api/health[/ready|/live]      health probes
//	GET  /api/version                   build information
//	GET  /api/metrics/system            export directory and runtime statistics
//	GET  /api/metrics/websocket         push hub counters
//	POST /api/logs                      upload page log relay
//
// The export routes take ?format=xlsx|csv (default xlsx) and, for CSV,
// ?table=summary|highlow|hourly|dates|date_hours|monthly|amounts|strategy
// (default hourly). Downloads carry the report name in Content-Disposition.
//
// # Error Handling
//
// Errors are rendered as RFC 7807 problems by errors.ErrorHandler. The
// error_code extension carries the API error code:
//
//	{
//	    "type": "/errors/analysis/no-matching-records",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "No trades matched the target symbol",
//	    "instance": "/api/analyses",
//	    "error_code": "NO_MATCHING_RECORDS"
//	}
//
// # Testing
//
// Handlers are tested with httptest against a chi router, using either the
// real AnalysisService or a testify mock of AnalysisServiceInterface.
package http
