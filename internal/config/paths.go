package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ExecutableDir returns the directory of the running binary with symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// EnsureDirectories creates the export and log directories
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExportPath joins name onto the export directory
func (p PathsConfig) ExportPath(name string) string {
	return filepath.Join(p.ExportDir, name)
}

// LogPathResolution logs the resolved paths at debug level
func (p PathsConfig) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("resolved paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("input_dir", p.InputDir),
		slog.String("export_dir", p.ExportDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadLocations resolves the source and display timezones
func (a AnalysisConfig) LoadLocations() (source, display *time.Location, err error) {
	source, err = time.LoadLocation(a.SourceTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid source timezone %q: %w", a.SourceTimezone, err)
	}
	display, err = time.LoadLocation(a.DisplayTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid display timezone %q: %w", a.DisplayTimezone, err)
	}
	return source, display, nil
}
