// Package app wires the TradePulse HTTP server. It owns configuration,
// logging, OpenTelemetry providers, the websocket hub, the services and the
// chi router, and runs them with graceful shutdown.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, TRADEPULSE_* environment)
//	2. Initialize the slog logger
//	3. Create the export and log directories
//	4. Initialize OpenTelemetry with a per-application Prometheus registry
//	5. Create the websocket hub, business metrics and services
//	6. Build the router and the HTTP server
//
// # Routes
//
//	GET  /ws                       analysis progress events
//	GET  /metrics                  Prometheus exposition
//	GET  /api/health[/ready|/live] health probes
//	GET  /api/version              build information
//	POST /api/analyses             analyze uploaded trade histories
//	POST /api/analyses/export      render a result as xlsx or csv
//	POST /api/analyses/export/upload
//	GET  /api/metrics/system|websocket
//	POST /api/logs                 client log relay
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down, stops the
// hub (closing every websocket client) and flushes the telemetry providers.
package app
