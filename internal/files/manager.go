package files

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tradepulse/internal/config"
	apperrors "tradepulse/internal/errors"
)

// Manager writes reports below the configured directories
type Manager struct {
	paths  config.PathsConfig
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths config.PathsConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With(slog.String("component", "files"))}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(m.Resolve(path))
	return err == nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	return os.MkdirAll(m.Resolve(path), 0755)
}

// WriteAtomic renders a file through write into a temporary sibling and
// renames it into place, so readers never see a half-written report. The
// temporary file is removed when write fails.
func (m *Manager) WriteAtomic(path string, write func(io.Writer) error) error {
	fullPath := m.Resolve(path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to sync "+fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close "+fullPath, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return apperrors.NewStorageError("failed to move report into place", err)
	}

	m.logger.Info("file written", slog.String("path", fullPath))
	return nil
}

// ListFiles returns the names of the files in a directory (non-recursive)
func (m *Manager) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(m.Resolve(dir))
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Resolve maps exports/, logs/ and input/ prefixes onto the configured
// directories. Absolute and other relative paths are returned unchanged.
func (m *Manager) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	slashed := filepath.ToSlash(path)
	switch {
	case strings.HasPrefix(slashed, "exports/") && m.paths.ExportDir != "":
		return m.paths.ExportPath(strings.TrimPrefix(slashed, "exports/"))
	case strings.HasPrefix(slashed, "logs/") && m.paths.LogsDir != "":
		return filepath.Join(m.paths.LogsDir, strings.TrimPrefix(slashed, "logs/"))
	case strings.HasPrefix(slashed, "input/") && m.paths.InputDir != "":
		return filepath.Join(m.paths.InputDir, strings.TrimPrefix(slashed, "input/"))
	default:
		return path
	}
}
