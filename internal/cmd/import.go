package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcharvet/boutik/internal/config"
	"github.com/mcharvet/boutik/internal/database"
	"github.com/mcharvet/boutik/internal/importer"
	"github.com/mcharvet/boutik/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Bulk import products from a spreadsheet",
	Long: `Import products from an .xlsx file. Required columns are
name, price, category and sku; stock and description are optional.
Each row is validated independently and failures are reported per row.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
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

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	stores := store.New(db, cfg.DB.MaxAttempts)
	im := importer.New(stores.Products, stores.Categories, logger)

	fmt.Printf("📦 Importing products from %s...\n", args[0])
	result, err := im.ImportXLSX(ctx, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✅ Imported %d of %d rows (%d failed)\n", result.Imported, result.Total, result.Failed)
	for _, rowErr := range result.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Error)
	}
	return nil
}
