package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/config"
	"github.com/mcharvet/boutik/internal/database"
	"github.com/mcharvet/boutik/internal/importer"
	"github.com/mcharvet/boutik/internal/newsletter"
	"github.com/mcharvet/boutik/internal/orders"
	"github.com/mcharvet/boutik/internal/server"
	"github.com/mcharvet/boutik/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Boutik API server",
	Long: `Start the Boutik API server which provides:
- storefront endpoints for products and order placement
- admin endpoints for products, categories, orders, users and newsletters
- a background sweep that delivers scheduled newsletter campaigns`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Boutik Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	fmt.Println("🔌 Connecting to database...")
	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(ctx)

	fmt.Println("✅ Database connected successfully")

	if err := db.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	stores := store.New(db, cfg.DB.MaxAttempts)
	workflow := orders.NewWorkflow(stores.Users, stores.Products, stores.Orders, orders.Pricing{
		FreeShippingThreshold: cfg.Orders.FreeShippingThreshold,
		FlatShippingFee:       cfg.Orders.FlatShippingFee,
		TaxRate:               cfg.Orders.TaxRate,
	}, logger)

	if cfg.Newsletter.SweepInterval > 0 {
		processor := newsletter.NewProcessor(
			stores.Newsletters, stores.Subscribers,
			&newsletter.LogMailer{Logger: logger},
			cfg.Newsletter.BatchSize, cfg.Newsletter.BatchDelay, logger)
		go processor.Run(ctx, cfg.Newsletter.SweepInterval)
	}

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(cfg.Server.Mode, logger, server.Deps{
		Workflow:    workflow,
		Orders:      stores.Orders,
		Products:    stores.Products,
		Categories:  stores.Categories,
		Users:       stores.Users,
		Newsletters: stores.Newsletters,
		Subscribers: stores.Subscribers,
		Importer:    importer.New(stores.Products, stores.Categories, logger),
		Health:      db.HealthCheck,
	})

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	config := zap.NewDevelopmentConfig()
	return config.Build()
}
