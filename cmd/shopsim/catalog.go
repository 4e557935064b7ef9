package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shopsim/internal/config"
	"shopsim/internal/simulation"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Reset the database and seed only the product catalog",
	Long: `Truncate members and categories (and everything that references them),
then insert the five fixed categories and a randomized product list.`,
	Example: `  shopsim catalog
  shopsim catalog --products 200 --date 2024-01-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateFlag, _ := cmd.Flags().GetString("date")
		day, err := config.ParseEndDate(dateFlag, time.Now())
		if err != nil {
			return err
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close(cmd.Context())

		driver, err := simulation.NewDriver(s.store, s.source(), s.logger)
		if err != nil {
			return err
		}

		if err := s.store.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset store: %w", err)
		}
		products, err := driver.SeedCatalog(cmd.Context(), day, s.products)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Seeded %d products dated %s (seed %d)\n", len(products), day.Format(time.DateOnly), s.seed)
		return nil
	},
}

func init() {
	catalogCmd.Flags().String("date", "", "created_at date of the catalog, YYYY-MM-DD (default today)")
}
