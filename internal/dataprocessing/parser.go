package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"

	apperrors "tradepulse/internal/errors"
	"tradepulse/pkg/contracts/domain"
)

var (
	utf8BOM     = []byte{0xEF, 0xBB, 0xBF}
	numericCell = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)
)

// maxSafeInteger keeps integral cells exact, larger ones stay text
const maxSafeInteger = 1<<53 - 1

// Parser reads trade history exports into header-keyed records
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With(slog.String("component", "parser"))}
}

// Parse picks the reader from the file extension. Anything that is not
// .xlsx is read as CSV.
func (p *Parser) Parse(name string, r io.Reader) ([]domain.Record, error) {
	var (
		records []domain.Record
		err     error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		records, err = ParseXLSX(r)
	default:
		records, err = ParseCSV(r)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse trade file", err).WithContext("file", name)
	}

	p.logger.Debug("parsed trade file",
		slog.String("file", name),
		slog.Int("rows", len(records)))

	return records, nil
}

// ParseCSV reads a CSV export with a header row. A UTF-8 BOM is dropped and
// Shift_JIS input is transcoded. Blank lines are skipped.
func ParseCSV(r io.Reader) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode shift_jis csv: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}

	return recordsFromRows(rows), nil
}

// ParseXLSX reads the first sheet of a workbook with a header row
func ParseXLSX(r io.Reader) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return recordsFromRows(rows), nil
}

// recordsFromRows keys each row by the first non-blank row
func recordsFromRows(rows [][]string) []domain.Record {
	var header []string
	records := make([]domain.Record, 0, len(rows))

	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		if header == nil {
			header = make([]string, len(row))
			for i, h := range row {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}

		rec := make(domain.Record, len(header))
		for i, name := range header {
			if i >= len(row) || name == "" {
				continue
			}
			rec[name] = typedCell(row[i])
		}
		records = append(records, rec)
	}

	return records
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// typedCell turns numeric and boolean looking cells into values; empty is nil
func typedCell(s string) any {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}

	if numericCell.MatchString(s) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && math.Abs(f) <= maxSafeInteger {
			return f
		}
	}
	return s
}
