package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/analyzer"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [result-file]",
	Short: "Rebuild recommendations for a saved analysis",
	Long: `Rebuild the tiered recommendations for an analysis saved with
"spotghost analyze --format json". Both the stored envelope and a bare
result are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

var recommendConfig common.CommandConfig

func init() {
	addOutputFlags(recommendCmd, &recommendConfig)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	createInput := func(files []common.InputFile) (*types.AnalysisResult, error) {
		if len(files) != 1 {
			return nil, fmt.Errorf("expected 1 result file, got %d", len(files))
		}
		return decodeResult(files[0])
	}

	recommendOperation := func(_ context.Context, result *types.AnalysisResult) (types.Recommendation, error) {
		return analyzer.BuildRecommendations(result), nil
	}

	if err := common.RunCommand(cmd.Context(), logger, recommendConfig, args, createInput, recommendOperation, nil); err != nil {
		return fmt.Errorf("failed to build recommendations: %w", err)
	}
	return nil
}

// decodeResult accepts a stored analysis envelope or a bare result.
func decodeResult(f common.InputFile) (*types.AnalysisResult, error) {
	var stored types.StoredAnalysis
	if err := json.Unmarshal(f.Content, &stored); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s is not a valid analysis document", f.Name), err)
	}
	if stored.Result != nil {
		return stored.Result, nil
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(f.Content, &result); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s is not a valid analysis document", f.Name), err)
	}
	if result.SafetyScore < 0 || result.SafetyScore > 100 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"safetyScore must be between 0 and 100", nil)
	}
	return &result, nil
}
