package cli

import (
	"context"
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [listing-file]",
	Short: "Score a job listing for fraud risk",
	Long: `Score a job listing and report its safety score, risk level, warnings
and recommendations.

The listing may be a JSON document, a saved HTML page or plain text whose
first line is the title. Use "-" to read it from stdin.

Full-mode analyses are recorded in the posting history so later postings
from the same company can be checked for duplicates. Pass --no-history to
score without reading or writing the history.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeConfig common.CommandConfig
	analyzeFlags  struct {
		mode      string
		profile   string
		sourceURL string
		noHistory bool
		ai        bool
	}
)

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
	analyzeCmd.Flags().StringVar(&analyzeFlags.mode, "mode", "", "Analysis mode: full or linkonly (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.profile, "profile", "", "Weights profile: classic or detailed (default for the mode)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.sourceURL, "source-url", "", "URL the listing was captured from")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.noHistory, "no-history", false, "Skip the posting history duplicate check and do not record the analysis")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.ai, "ai", false, "Ask the AI verdict service for a second opinion")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := common.ValidateAnalysisFlags(analyzeFlags.mode, analyzeFlags.profile); err != nil {
		return err
	}
	if analyzeFlags.ai {
		cfg.AI.Enabled = true
	}

	rt, err := common.NewRuntime(cmd.Context(), cfg, logger, common.RuntimeOptions{NoHistory: analyzeFlags.noHistory, NoCache: true})
	if err != nil {
		return fmt.Errorf("failed to prepare analysis: %w", err)
	}
	defer rt.Close()

	createInput := func(files []common.InputFile) (types.JobListing, error) {
		if len(files) != 1 {
			return types.JobListing{}, fmt.Errorf("expected 1 listing, got %d", len(files))
		}
		return common.DecodeListing(files[0], analyzeFlags.sourceURL)
	}

	logDetails := func(listing types.JobListing, cfg common.CommandConfig) {
		logger.Info("Starting fraud risk analysis",
			"company", listing.Company,
			"description_chars", len(listing.Description),
			"mode", analyzeFlags.mode,
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(ctx context.Context, listing types.JobListing) (*types.StoredAnalysis, error) {
		return rt.Analyze(ctx, listing, analyzeFlags.mode, analyzeFlags.profile)
	}

	err = common.RunCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze listing: %w", err)
	}
	logger.Info("Fraud risk analysis completed successfully")
	return nil
}
