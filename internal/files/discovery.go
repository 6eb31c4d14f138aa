package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds trade history files for the command line tools
type Discovery struct {
	basePath   string
	extensions []string
}

// NewDiscovery creates a discovery resolving relative paths against basePath
// and accepting files with one of extensions
func NewDiscovery(basePath string, extensions []string) *Discovery {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	return &Discovery{basePath: basePath, extensions: exts}
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}

// Accepts reports whether name looks like a trade history file. Excel lock
// files (~$name.xlsx) and hidden files are rejected.
func (d *Discovery) Accepts(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, want := range d.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// FindTradeFiles lists the trade files directly inside dir, sorted by name
func (d *Discovery) FindTradeFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !d.Accepts(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Resolve expands command line arguments into file paths. Directories
// contribute their trade files; plain files are kept in argument order even
// when their extension is not accepted, so validation can report them.
// Paths seen twice are listed once.
func (d *Discovery) Resolve(args []string) ([]string, error) {
	var (
		paths []string
		seen  = make(map[string]bool)
	)
	add := func(p string) {
		key := filepath.Clean(p)
		if !seen[key] {
			seen[key] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		full := d.resolve(arg)
		info, err := os.Stat(full)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(full)
			continue
		}

		found, err := d.FindTradeFiles(full)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no trade history files (%s) in %s", strings.Join(d.extensions, ", "), arg)
		}
		for _, f := range found {
			add(f.Path)
		}
	}

	return paths, nil
}

// FindLatest returns the most recently modified trade file in dir
func (d *Discovery) FindLatest(dir string) (*FileInfo, error) {
	files, err := d.FindTradeFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no trade history files in %s", dir)
	}

	latest := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(latest.ModTime) {
			latest = f
		}
	}
	return &latest, nil
}
