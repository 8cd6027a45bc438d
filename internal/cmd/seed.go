package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcharvet/boutik/internal/config"
	"github.com/mcharvet/boutik/internal/database"
	"github.com/mcharvet/boutik/internal/models"
	"github.com/mcharvet/boutik/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a demo catalog",
	Long: `Insert a small demo catalog (categories, products, a customer and
an admin) so a fresh install has something to browse. Safe to skip in
production; it does not check for existing data.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(ctx)

	if err := db.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	stores := store.New(db, cfg.DB.MaxAttempts)

	lighting := &models.Category{
		Name: "Lighting", Slug: "lighting",
		Description: "Lamps and fixtures",
		Attributes: []models.CategoryAttribute{
			{Name: "color", Type: "color", Required: false},
			{Name: "bulb", Type: "select", Required: true, Options: []string{"E14", "E27", "GU10"}},
		},
	}
	furniture := &models.Category{
		Name: "Furniture", Slug: "furniture",
		Description: "Tables, chairs and storage",
		Attributes:  []models.CategoryAttribute{{Name: "material", Type: "text"}},
	}
	for _, c := range []*models.Category{lighting, furniture} {
		if err := stores.Categories.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}

	products := []*models.Product{
		{Name: "Desk Lamp", Description: "Adjustable LED desk lamp", Price: 49.90, Stock: 40, SKU: "LGT-0001", CategoryID: lighting.ID, IsBestSeller: true},
		{Name: "Floor Lamp", Description: "Three-legged floor lamp", Price: 129.00, Stock: 15, SKU: "LGT-0002", CategoryID: lighting.ID, IsNew: true},
		{Name: "Oak Side Table", Description: "Solid oak, 45cm", Price: 89.50, Stock: 22, SKU: "FRN-0001", CategoryID: furniture.ID},
		{Name: "Reading Chair", Description: "Upholstered armchair", Price: 349.00, Stock: 5, SKU: "FRN-0002", CategoryID: furniture.ID, Rating: 4.6},
	}
	for _, p := range products {
		if err := stores.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.SKU, err)
		}
	}

	users := []*models.User{
		{Name: "Store Admin", Email: "admin@boutik.local", Role: models.RoleAdmin},
		{Name: "Demo Customer", Email: "customer@boutik.local", Role: models.RoleCustomer},
	}
	for _, u := range users {
		if err := stores.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}

	fmt.Printf("🌱 Seeded %d categories, %d products, %d users\n", 2, len(products), len(users))
	return nil
}
