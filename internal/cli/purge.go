package cli

import (
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/scheduler"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/storage"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete stored analyses older than the retention window",
	Long: `Run one retention purge against the configured posting store and exit.
The server runs the same purge on the retention schedule.`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

var purgeMaxAgeDays int

func init() {
	purgeCmd.Flags().IntVar(&purgeMaxAgeDays, "max-age-days", 0, "Retention window in days (default from config)")
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	retention := cfg.Retention
	if purgeMaxAgeDays > 0 {
		retention.MaxAgeDays = purgeMaxAgeDays
	}
	if retention.MaxAgeDays <= 0 {
		return fmt.Errorf("retention max age must be positive")
	}

	store, err := storage.Open(cmd.Context(), cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := scheduler.New(store, retention, logger).RunOnce(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d analyses older than %d days from %s store\n",
		deleted, retention.MaxAgeDays, store.Backend())
	return nil
}
