package cli

import (
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"

	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link <url>",
	Short: "Score an application link on its own",
	Long: `Score a bare application URL in link-only mode: domain reputation, URL
structure, transport security and domain shape.

Results are cached in Redis when the cache is enabled; a rules reload
invalidates earlier entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

var linkConfig common.CommandConfig

func init() {
	addOutputFlags(linkCmd, &linkConfig)
}

func runLink(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Link scoring never touches history or the AI service.
	linkCfg := *cfg
	linkCfg.AI.Enabled = false
	rt, err := common.NewRuntime(cmd.Context(), &linkCfg, logger, common.RuntimeOptions{NoHistory: true})
	if err != nil {
		return fmt.Errorf("failed to prepare analysis: %w", err)
	}
	defer rt.Close()

	logger.Info("Starting link analysis", "url", args[0])
	result, cached, err := rt.AnalyzeLink(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to analyze link: %w", err)
	}
	logger.Debug("Link analysis finished", "cached", cached, "risk_score", result.RiskScore)

	return common.NewOutputHandler(logger).HandleOutput(result, linkConfig)
}
