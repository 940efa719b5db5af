package main

import (
	"github.com/IvanShishkin/fdigest/internal/compare"
	"github.com/IvanShishkin/fdigest/internal/core"
	"github.com/IvanShishkin/fdigest/internal/filesystem"
	"github.com/IvanShishkin/fdigest/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareCmd creates the compare command
func compareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old-report> <new-report>",
		Short: "Show files added, removed or modified between two reports",
		Long: `Compares two reports by file path. A file is modified when its digest or size
changed. Exits with status 2 when the reports differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, err := report.ReadReport(args[0])
			if err != nil {
				return err
			}
			newer, err := report.ReadReport(args[1])
			if err != nil {
				return err
			}

			result := compare.Diff(older.Records, newer.Records)
			a.logger.Info("Reports compared",
				zap.Int("added", len(result.Added)),
				zap.Int("removed", len(result.Removed)),
				zap.Int("modified", len(result.Modified)))

			report.WriteDiff(a.out, result)
			if result.HasDifferences() {
				return errDifferences
			}
			return nil
		},
	}
}

// verifyCmd creates the verify command
func verifyCmd(a *app, flags *digestFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <report>",
		Short: "Re-hash the files listed in a report",
		Long: `Reads every file listed in a report again and compares its digest and size.
Exits with status 2 when a file changed or can no longer be read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			rep, err := report.ReadReport(args[0])
			if err != nil {
				return err
			}

			scanner, err := core.NewScanner(cfg, filesystem.NewOS(cfg), a.logger)
			if err != nil {
				return err
			}
			if cfg.Progress {
				scanner.SetProgressCallback(newProgressPrinter(a.out))
			}

			results, err := scanner.Verify(cmd.Context(), rep.Records)
			if err != nil {
				return err
			}

			report.WriteVerify(a.out, results)
			if !results.Clean() {
				return errDifferences
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.blockSize, "block-size", "", "Read block size for hashing (e.g. 64K, 1M)")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Do not print progress")

	return cmd
}
