package cli

import (
	"context"
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "spotghost",
	Short: "Score job postings for fraud risk",
	Long: `SpotGhost scores job postings for the signs of recruitment scams and
ghost listings. It reads a listing as JSON, HTML or plain text, or just the
application link, and reports a safety score, the warnings behind it and
what to do next.

Run "spotghost serve" to expose the same analysis over HTTP.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// addOutputFlags registers -o/--output and --format on cmd and validates the
// format before the command runs.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if cmdConfig.OutputFormat == "" {
			cmdConfig.OutputFormat = cfg.App.DefaultFormat
		}
		cmdConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
	}

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
