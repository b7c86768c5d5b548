package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/observability"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fraud risk HTTP API",
	Long: `Start an HTTP server that exposes the analysis engine as a REST API.

Available endpoints:
- POST /analyze: Score a job listing
- POST /analyze/link: Score an application link in link-only mode
- POST /analyze/html: Extract a listing from page HTML and score it
- GET /analyses/{id}: Fetch a stored analysis
- POST /recommendations: Rebuild recommendations for a result
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

The rules file is reloaded on change when --watch-rules is set; requests in
flight keep the rules they started with.`,
	RunE: runServe,
}

var serveFlags struct {
	port       string
	host       string
	rulesFile  string
	watchRules bool
	noHistory  bool
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.rulesFile, "rules-file", "", "YAML rules overlay (overrides config)")
	serveCmd.Flags().BoolVar(&serveFlags.watchRules, "watch-rules", false, "Reload the rules file when it changes")
	serveCmd.Flags().BoolVar(&serveFlags.noHistory, "no-history", false, "Run without the posting history store")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if serveFlags.port != "" {
		cfg.Server.Port = serveFlags.port
	}
	if serveFlags.host != "" {
		cfg.Server.Host = serveFlags.host
	}
	if serveFlags.rulesFile != "" {
		cfg.Engine.RulesFile = serveFlags.rulesFile
	}
	if cmd.Flags().Changed("watch-rules") {
		cfg.Engine.WatchRules = serveFlags.watchRules
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shut down observability")
		}
	}()

	rt, err := common.NewRuntime(cmd.Context(), cfg, logger, common.RuntimeOptions{
		NoHistory: serveFlags.noHistory,
		Metrics:   om.GetMetrics(),
		Tracer:    om.Tracer("spotghost.analysis"),
	})
	if err != nil {
		return fmt.Errorf("failed to prepare analysis runtime: %w", err)
	}
	defer rt.Close()

	return server.NewServer(rt, om, Version).Start(cmd.Context())
}
