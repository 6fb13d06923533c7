package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/critex/internal/batch"
	"github.com/MeKo-Tech/critex/internal/extract"
)

var batchCmd = &cobra.Command{
	Use:   "batch <path>...",
	Short: "Extract design criteria from many PDFs in parallel",
	Long: `Batch discovers PDF files under the given paths and runs the extraction
pipeline over them with a worker pool. Individual document failures are
recorded in the batch summary without aborting the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		client, err := newServiceClient(cfg)
		if err != nil {
			return err
		}

		workers, _ := cmd.Flags().GetInt("workers")
		if workers <= 0 {
			workers = cfg.Batch.Workers
		}
		recursive, _ := cmd.Flags().GetBool("recursive")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")

		extractor := extract.New(client, filepath.Join(cfg.OutputDir, "jobs"), slog.Default())

		result, err := batch.Process(cmd.Context(), extractor, args, batch.Config{
			Workers:         workers,
			Recursive:       recursive || cfg.Batch.Recursive,
			IncludePatterns: include,
			ExcludePatterns: exclude,
			OutputDir:       cfg.OutputDir,
		}, slog.Default())
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), batch.FormatSummary(result))
		if result.Failed > 0 {
			return fmt.Errorf("%d of %d documents failed", result.Failed, len(result.Files))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("workers", "w", 0, "worker pool size (default from config)")
	batchCmd.Flags().BoolP("recursive", "r", false, "scan directories recursively")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of files to include")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to exclude")
}
