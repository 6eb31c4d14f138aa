// Package files locates trade history exports and writes reports for the
// TradePulse command line tools.
//
// Discovery expands command line arguments into trade files: plain files are
// kept in order and directories contribute their .csv and .xlsx files sorted
// by name. Excel lock files (~$name.xlsx) are skipped.
//
// Manager writes reports atomically below the configured export directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery("", cfg.Analysis.AllowedExtensions)
//	paths, err := discovery.Resolve(args)
//
//	manager := files.NewManager(cfg.Paths, logger)
//	err = manager.WriteAtomic("exports/BTC取引分析_20240320.xlsx", func(w io.Writer) error {
//	    _, err := svc.Export(ctx, result, req, w)
//	    return err
//	})
package files
