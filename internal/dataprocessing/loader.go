package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tradepulse/pkg/contracts/domain"
)

// DefaultParseConcurrency bounds how many files parse at once
const DefaultParseConcurrency = 3

var (
	// ErrNoFiles is returned when Load is called without sources
	ErrNoFiles = errors.New("no files to analyze")
	// ErrNoParsedFiles is returned when every source failed to parse
	ErrNoParsedFiles = errors.New("no file could be parsed")
)

// Source is one named input file
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource reads a file from disk
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesSource wraps in-memory content
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// StatusFunc observes per-file status changes. It may be called from
// several goroutines.
type StatusFunc func(ctx context.Context, file domain.UploadedFile)

// Loader parses several files concurrently and concatenates their records
// in submission order. One failed file does not stop the others.
type Loader struct {
	parser   *Parser
	logger   *slog.Logger
	limit    int
	onStatus StatusFunc
}

// NewLoader creates a loader parsing at most limit files at once
func NewLoader(logger *slog.Logger, limit int) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = DefaultParseConcurrency
	}
	return &Loader{
		parser: NewParser(logger),
		logger: logger.With(slog.String("component", "loader")),
		limit:  limit,
	}
}

// OnStatus registers fn for per-file status updates
func (l *Loader) OnStatus(fn StatusFunc) *Loader {
	l.onStatus = fn
	return l
}

// Load parses sources. The returned file list is in submission order and
// always describes every source, even when err is ErrNoParsedFiles.
func (l *Loader) Load(ctx context.Context, sources []Source) ([]domain.Record, []domain.UploadedFile, error) {
	if len(sources) == 0 {
		return nil, nil, ErrNoFiles
	}

	files := make([]domain.UploadedFile, len(sources))
	parsed := make([][]domain.Record, len(sources))

	for i, src := range sources {
		files[i] = domain.UploadedFile{
			ID:     uuid.New().String(),
			Name:   src.Name,
			Status: domain.FileStatusUploading,
		}
		l.notify(ctx, files[i])
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			records, err := l.parseSource(src)
			if err != nil {
				files[i].Status = domain.FileStatusError
				files[i].Error = err.Error()
				l.logger.WarnContext(ctx, "trade file failed to parse",
					slog.String("file", src.Name),
					slog.String("error", err.Error()))
			} else {
				files[i].Status = domain.FileStatusDone
				files[i].Rows = len(records)
				parsed[i] = records
			}
			l.notify(ctx, files[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, files, err
	}

	var (
		records []domain.Record
		ok      int
	)
	for i := range sources {
		if files[i].Status != domain.FileStatusDone {
			continue
		}
		ok++
		records = append(records, parsed[i]...)
	}

	if ok == 0 {
		return nil, files, ErrNoParsedFiles
	}

	l.logger.InfoContext(ctx, "trade files loaded",
		slog.Int("files", len(sources)),
		slog.Int("parsed", ok),
		slog.Int("records", len(records)))

	return records, files, nil
}

func (l *Loader) parseSource(src Source) ([]domain.Record, error) {
	if src.Open == nil {
		return nil, fmt.Errorf("source %s has no content", src.Name)
	}
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer rc.Close()

	return l.parser.Parse(src.Name, rc)
}

func (l *Loader) notify(ctx context.Context, file domain.UploadedFile) {
	if l.onStatus != nil {
		l.onStatus(ctx, file)
	}
}
