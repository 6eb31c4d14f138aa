// Package config provides centralized configuration management for TradePulse.
// It loads configuration from multiple sources, validates it with struct tags
// and exposes a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The YAML file is taken from TRADEPULSE_CONFIG when set, otherwise from
// config.yaml in the working directory, configs/, or next to the executable.
//
// # Environment Variables
//
// All environment variables follow the pattern TRADEPULSE_<SECTION>_<KEY>:
//
//	TRADEPULSE_SERVER_PORT=8080
//	TRADEPULSE_LOGGING_LEVEL=debug
//	TRADEPULSE_ANALYSIS_TARGET_SYMBOL=BTC
//	TRADEPULSE_ANALYSIS_MAX_FILES=5
//	TRADEPULSE_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,https://app.example.com
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Analysis.TargetSymbol)
package config
