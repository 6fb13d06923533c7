package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/critex/internal/config"
	"github.com/MeKo-Tech/critex/internal/docai"
	"github.com/MeKo-Tech/critex/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <document.pdf>",
	Short: "Extract design criteria from a single PDF",
	Long: `Extract runs the full pipeline on one PDF drawing: entity extraction via
the document-understanding service, classification into typed records,
region cropping, and image reconciliation. Artifacts land in a job
directory under the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		client, err := newServiceClient(cfg)
		if err != nil {
			return err
		}

		registry := extract.NewRegistry()
		job := registry.Create(args[0])

		extractor := extract.New(client, cfg.OutputDir, slog.Default())
		result, err := extractor.ExtractFile(cmd.Context(), args[0], job.ID)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			fmt.Fprint(cmd.OutOrStdout(), extract.SummaryReport(result))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results saved to: %s\n", extractor.JobDir(job.ID))
		return nil
	},
}

// newServiceClient builds the REST client from the effective config.
func newServiceClient(cfg *config.Config) (docai.Client, error) {
	if cfg.Service.Endpoint == "" {
		return nil, errors.New("service endpoint not configured (set --endpoint, service.endpoint, or CRITEX_SERVICE_ENDPOINT)")
	}
	return docai.NewRESTClient(cfg.Service.Endpoint,
		docai.WithToken(cfg.Service.Token),
		docai.WithHTTPClient(&http.Client{Timeout: cfg.Service.Timeout()}),
		docai.WithLogger(slog.Default()),
	)
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolP("quiet", "q", false, "suppress the summary report on stdout")
}
