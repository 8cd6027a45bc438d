package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boutik",
	Short: "Boutik - Commerce storefront API and admin back-office",
	Long: `Boutik is the backend for a commerce storefront: catalog browsing,
cart checkout, order lifecycle management, and an admin back-office
for products, categories, orders, users and newsletters.

Run it as an API server, or use the CLI commands for bulk product
imports and newsletter processing.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
