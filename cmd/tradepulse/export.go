package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tradepulse/internal/files"
	"tradepulse/internal/validation"
	api "tradepulse/pkg/contracts/api/v1"
)

type exportOptions struct {
	format string
	table  string
	out    string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	eo := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <file|dir>...",
		Short: "Analyze trade histories and write the report",
		Long: `Analyze trade history files and write the report as an Excel workbook or a
CSV table. --out may name a directory (the report keeps its generated name) or
a file ending in the format extension. Without --out the report is written to
the configured export directory.

Examples:
  tradepulse export history.csv
  tradepulse export history.csv --format csv --table dates --out reports/
  tradepulse export data/ --out summary.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, eo, args)
		},
	}

	cmd.Flags().StringVarP(&eo.format, "format", "f", api.FormatXLSX, "Report format: xlsx or csv")
	cmd.Flags().StringVarP(&eo.table, "table", "t", "", "CSV table: summary, highlow, hourly, dates, date_hours, monthly, amounts or strategy")
	cmd.Flags().StringVarP(&eo.out, "out", "o", "", "Output directory or file")
	return cmd
}

func runExport(cmd *cobra.Command, opts *rootOptions, eo *exportOptions, args []string) error {
	ctx := cmd.Context()

	rt, err := opts.runtime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.close()

	req := api.ExportRequest{
		Format: strings.ToLower(strings.TrimSpace(eo.format)),
		Table:  strings.ToLower(strings.TrimSpace(eo.table)),
	}

	report, err := rt.analyze(ctx, args)
	if err != nil {
		return err
	}

	// rendered first so a failed export leaves no file behind
	var buf bytes.Buffer
	file, err := rt.service.Export(ctx, report.Result, req, &buf)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(rt.cfg.Analysis.AllowedExtensions, rt.cfg.Analysis.MaxFileBytes, rt.logger)
	target, err := exportTarget(validator, eo.out, rt.cfg.Paths.ExportDir, file.Name, req.Format)
	if err != nil {
		return err
	}

	manager := files.NewManager(rt.cfg.Paths, rt.logger)
	if err := manager.WriteAtomic(target, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), manager.Resolve(target))
	return nil
}

// exportTarget decides where the report named name goes. An empty out means
// the export directory; an existing directory or a path ending in a separator
// keeps the generated name.
func exportTarget(validator *validation.FileValidator, out, exportDir, name, format string) (string, error) {
	dir := ""
	switch {
	case out == "":
		dir = exportDir
	case strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator)):
		dir = out
	default:
		if info, err := os.Stat(out); err == nil && info.IsDir() {
			dir = out
		}
	}

	if dir != "" {
		if err := validator.ValidateOutputDirectory(dir); err != nil {
			return "", err
		}
		return filepath.Join(dir, name), nil
	}

	if err := validator.ValidateOutputFile(out, format); err != nil {
		return "", err
	}
	return out, nil
}
