// Command kitchenctl imports recipes from spreadsheets and exports catalog charts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mykitchen/kitchen/config"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/bootstrap"
	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/internal/workbook"
	"github.com/mykitchen/kitchen/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "kitchenctl",
		Short:        "Administer the MyKitchen recipe catalog",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger.Initialize(logger.Config{Level: level, Format: "console", EnableColor: true})
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newImportCmd(), newExportChartsCmd())
	return root
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(ctx context.Context, fn func(repository.RecipeRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	inf, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer inf.Close()

	return fn(inf.RecipeRepository())
}

func newImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Create recipes from the first sheet of a workbook",
		Long: `Reads a header row with the columns title, method, images, cooking_time,
price, ingredients and category. Images and ingredients are separated by
semicolons or newlines. Cooking time accepts "25", "25 min" or "25 minutes".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := workbook.ReadRecipes(f)
			if err != nil {
				return err
			}

			run := func(recipes service.RecipeService) error {
				report, err := workbook.Import(cmd.Context(), recipes, rows, dryRun)
				if report != nil {
					printReport(cmd, report, dryRun)
				}
				if err != nil {
					return err
				}
				if len(report.Failed) > 0 {
					return fmt.Errorf("%d of %d rows failed", len(report.Failed), len(rows))
				}
				return nil
			}

			if dryRun {
				return run(nil)
			}
			return withCatalog(cmd.Context(), func(repo repository.RecipeRepository) error {
				st := store.New(nil)
				defer st.Close()
				return run(service.NewRecipeService(repo, st))
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate rows without writing to the catalog")
	return cmd
}

func printReport(cmd *cobra.Command, report *workbook.ImportReport, dryRun bool) {
	out := cmd.OutOrStdout()
	verb := "created"
	if dryRun {
		verb = "valid"
	}
	fmt.Fprintf(out, "%d recipes %s, %d failed\n", report.Created, verb, len(report.Failed))
	for _, f := range report.Failed {
		fmt.Fprintf(out, "  %s\n", f.Error())
	}
}

func newExportChartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-charts <out.xlsx>",
		Short: "Write the dashboard series to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), func(repo repository.RecipeRepository) error {
				charts, err := service.NewAnalyticsService(repo).Charts(cmd.Context())
				if err != nil {
					return err
				}

				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				if err := workbook.WriteCharts(f, charts); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d recipes charted to %s\n", charts.TotalRecipes, args[0])
				return nil
			})
		},
	}
}
