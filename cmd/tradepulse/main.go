// Command tradepulse analyzes binary options trade histories from the command
// line and serves the analysis API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tradepulse/internal/config"
	"tradepulse/internal/dataprocessing"
	"tradepulse/internal/files"
	"tradepulse/internal/infrastructure"
	"tradepulse/internal/services"
	"tradepulse/internal/validation"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	envFile string
	verbose bool
	symbol  string
}

// runtime is the configuration, logger and service one command runs with
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *services.AnalysisService
	logFile *os.File
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "tradepulse",
		Short: "Binary options trade history analyzer",
		Long: `TradePulse reads exported binary options trade histories (.csv or .xlsx),
keeps the trades of one symbol and reports win rates by hour, date, month,
direction and stake, plus a recommended trading-hour strategy.

Configuration is read from config.yaml and TRADEPULSE_* environment
variables; a .env file in the working directory is loaded first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(opts.envFile)
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from this file instead of .env")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")
	root.PersistentFlags().StringVar(&opts.symbol, "symbol", "", "Analyze this symbol instead of the configured one")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newExportCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadEnv loads an explicit env file, or .env when one exists. Variables
// already set in the environment win.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

// loadConfig applies the persistent flag overrides to the loaded configuration
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.symbol != "" {
		cfg.Analysis.TargetSymbol = o.symbol
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// runtime builds the analysis runtime. Logs go to console so stdout stays
// free for command output.
func (o *rootOptions) runtime(console io.Writer) (*runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, console)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	service, err := services.NewAnalysisService(cfg.Analysis, logger)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, service: service, logFile: logFile}, nil
}

func (rt *runtime) close() {
	if rt.logFile != nil {
		rt.logFile.Close()
	}
}

// analyze resolves args into trade files, validates them and runs the analysis
func (rt *runtime) analyze(ctx context.Context, args []string) (*services.AnalysisReport, error) {
	discovery := files.NewDiscovery("", rt.cfg.Analysis.AllowedExtensions)
	paths, err := discovery.Resolve(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no trade history files given")
	}

	validator := validation.NewFileValidator(rt.cfg.Analysis.AllowedExtensions, rt.cfg.Analysis.MaxFileBytes, rt.logger)
	sources := make([]dataprocessing.Source, 0, len(paths))
	for _, path := range paths {
		if err := validator.ValidateTradeFile(path); err != nil {
			return nil, err
		}
		sources = append(sources, dataprocessing.FileSource(path))
	}

	return rt.service.Analyze(ctx, sources)
}
