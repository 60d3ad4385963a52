package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-decon/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Deconvolve every unprocessed dataset below the configured root",
	Long: `Walks the data root for directories holding a settings file,
deconvolves each frame with the PSF of its channel and records the
processed directories in processed.json at the root.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "path to configuration file (required)")
	runCmd.Flags().BoolP("dry-run", "d", false, "report what would be done without writing files")
	runCmd.Flags().BoolP("verbose", "v", false, "log per-iteration progress")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	if dryRun {
		cfg.DryRun = true
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger := SetupLogger(cfg.Log, cmd.ErrOrStderr())

	runner, err := pipeline.NewRunner(cfg.Config, logger)
	if err != nil {
		return err
	}

	summary, err := runner.Run(cmd.Context())

	cmd.Printf("datasets: %d, frames: %d, failed: %d, skipped: %d\n",
		summary.Datasets, summary.Frames, summary.Failed, summary.Skipped)

	if err != nil {
		if summary.Failed > 0 && !errors.Is(err, cmd.Context().Err()) {
			return fmt.Errorf("%d frame(s) failed: %w", summary.Failed, err)
		}
		return err
	}

	return nil
}
