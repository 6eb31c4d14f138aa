package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	// EnvPrefix namespaces every environment variable
	EnvPrefix = "TRADEPULSE"
	// ConfigFileEnv points at an explicit YAML config file
	ConfigFileEnv = "TRADEPULSE_CONFIG"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"required,min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration.
// Relative paths resolve against the executable directory.
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	InputDir      string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	ExportDir     string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" validate:"min=0"`
	WriteBufferSize int `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" validate:"min=0"`
}

// AnalysisConfig holds the engine thresholds and intake limits
type AnalysisConfig struct {
	TargetSymbol        string   `yaml:"target_symbol" envconfig:"TARGET_SYMBOL" validate:"required"`
	MinDateHourTrades   int      `yaml:"min_date_hour_trades" envconfig:"MIN_DATE_HOUR_TRADES" validate:"min=1"`
	StrategyMinTrades   int      `yaml:"strategy_min_trades" envconfig:"STRATEGY_MIN_TRADES" validate:"min=1"`
	StrategyLimit       int      `yaml:"strategy_limit" envconfig:"STRATEGY_LIMIT" validate:"min=1"`
	ReportHourLimit     int      `yaml:"report_hour_limit" envconfig:"REPORT_HOUR_LIMIT" validate:"min=1"`
	ReportMinDateTrades int      `yaml:"report_min_date_trades" envconfig:"REPORT_MIN_DATE_TRADES" validate:"min=1"`
	ReportDateLimit     int      `yaml:"report_date_limit" envconfig:"REPORT_DATE_LIMIT" validate:"min=1"`
	SourceTimezone      string   `yaml:"source_timezone" envconfig:"SOURCE_TIMEZONE" validate:"required,timezone"`
	DisplayTimezone     string   `yaml:"display_timezone" envconfig:"DISPLAY_TIMEZONE" validate:"required,timezone"`
	MaxFiles            int      `yaml:"max_files" envconfig:"MAX_FILES" validate:"min=1,max=50"`
	ParseConcurrency    int      `yaml:"parse_concurrency" envconfig:"PARSE_CONCURRENCY" validate:"min=1"`
	MaxFileBytes        int64    `yaml:"max_file_bytes" envconfig:"MAX_FILE_BYTES" validate:"min=1"`
	AllowedExtensions   []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS" validate:"required,dive,startswith=."`
}

// TelemetryConfig controls OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, then an optional YAML file,
// then TRADEPULSE_* environment variables. Later sources win.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes extension case
func (c *Config) Validate() error {
	for i, ext := range c.Analysis.AllowedExtensions {
		c.Analysis.AllowedExtensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "app.log")
	}
	return nil
}

// resolvePaths fills ExecutableDir and makes relative directories absolute
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return err
		}
		c.Paths.ExecutableDir = dir
	}

	c.Paths.InputDir = c.resolve(c.Paths.InputDir)
	c.Paths.ExportDir = c.resolve(c.Paths.ExportDir)
	c.Paths.LogsDir = c.resolve(c.Paths.LogsDir)
	return nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.ExecutableDir, path)
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	if dir, err := ExecutableDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "config.yaml"))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Paths: PathsConfig{
			InputDir:  "data",
			ExportDir: "exports",
			LogsDir:   "logs",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Analysis: AnalysisConfig{
			TargetSymbol:        "BTC",
			MinDateHourTrades:   3,
			StrategyMinTrades:   5,
			StrategyLimit:       3,
			ReportHourLimit:     5,
			ReportMinDateTrades: 3,
			ReportDateLimit:     5,
			SourceTimezone:      "Asia/Tokyo",
			DisplayTimezone:     "Asia/Tokyo",
			MaxFiles:            5,
			ParseConcurrency:    3,
			MaxFileBytes:        10 << 20,
			AllowedExtensions:   []string{".csv", ".xlsx"},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "tradepulse",
			Environment:    "development",
			EnableTracing:  false,
			EnableMetrics:  true,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
