package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/treasurevalley/lotmap/internal/config"
	"github.com/treasurevalley/lotmap/internal/db"
	"github.com/treasurevalley/lotmap/internal/property"
)

func main() {
	_ = godotenv.Load(".env.local")

	var dryRun, asJSON bool
	rootCmd := &cobra.Command{
		Use:   "reconcile-lots",
		Short: "Recompute square footage and acres for stored lots",
		Long: "Recomputes the linked lot fields of every live property from its " +
			"dimensions, square footage or acres, and writes the ones that disagree.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			db.Connect(db.Options{
				DSN:                       cfg.DatabaseURL,
				SuppressTransientWarnings: cfg.SuppressTransientDBWarnings,
			})
			store := property.NewSchemaTolerantStore(property.NewGormStore(db.DB), cfg.DriftGroups)
			svc := property.NewService(store, nil)

			fixes, err := svc.ReconcileLots(cmd.Context(), dryRun)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(fixes); encErr != nil {
					return encErr
				}
			} else {
				for _, f := range fixes {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s (%s): %v\n", f.Title, f.ID, f.Fields)
				}
			}
			if err != nil {
				return fmt.Errorf("reconcile lots: %w", err)
			}

			verb := "Updated"
			if dryRun {
				verb = "Would update"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d properties.\n", verb, len(fixes))
			return nil
		},
	}
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list mismatches without writing")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print mismatches as JSON")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
