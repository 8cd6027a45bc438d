package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcharvet/boutik/internal/config"
	"github.com/mcharvet/boutik/internal/database"
	"github.com/mcharvet/boutik/internal/newsletter"
	"github.com/mcharvet/boutik/internal/store"
)

var newslettersCmd = &cobra.Command{
	Use:   "newsletters",
	Short: "Process due scheduled newsletter campaigns once",
	Long: `Find scheduled newsletter campaigns whose delivery time has passed
and send them to active subscribers in batches. The run command does
this on an interval; this command does a single sweep and exits.`,
	RunE: runNewsletters,
}

func init() {
	rootCmd.AddCommand(newslettersCmd)
}

func runNewsletters(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(ctx)

	stores := store.New(db, cfg.DB.MaxAttempts)
	processor := newsletter.NewProcessor(
		stores.Newsletters, stores.Subscribers,
		&newsletter.LogMailer{Logger: logger},
		cfg.Newsletter.BatchSize, cfg.Newsletter.BatchDelay, logger)

	n, err := processor.ProcessDue(ctx)
	if err != nil {
		return fmt.Errorf("newsletter sweep failed: %w", err)
	}

	fmt.Printf("📧 Processed %d due campaign(s)\n", n)
	return nil
}
