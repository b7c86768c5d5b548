package cli

import (
	"context"
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [page-file]",
	Short: "Extract a job listing from a saved page",
	Long: `Extract the title, company, description and contact details from a saved
job page without scoring it. Structured JobPosting data is preferred over
page selectors when the page carries it. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractConfig    common.CommandConfig
	extractSourceURL string
)

func init() {
	addOutputFlags(extractCmd, &extractConfig)
	extractCmd.Flags().StringVar(&extractSourceURL, "source-url", "", "URL the page was captured from, used to resolve relative links")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	createInput := func(files []common.InputFile) (common.InputFile, error) {
		if len(files) != 1 {
			return common.InputFile{}, fmt.Errorf("expected 1 page, got %d", len(files))
		}
		return files[0], nil
	}

	extractOperation := func(_ context.Context, f common.InputFile) (types.JobListing, error) {
		return common.DecodeListing(f, extractSourceURL)
	}

	if err := common.RunCommand(cmd.Context(), logger, extractConfig, args, createInput, extractOperation, nil); err != nil {
		return fmt.Errorf("failed to extract listing: %w", err)
	}
	return nil
}
