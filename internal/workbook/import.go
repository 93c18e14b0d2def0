package workbook

import (
	"context"
	"fmt"

	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/pkg/logger"
)

type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ImportReport summarises an import run. In a dry run Created counts rows
// that passed validation.
type ImportReport struct {
	Created int
	Failed  []RowError
}

// Import creates a recipe per row. Failing rows are collected and do not stop
// the run; a cancelled context does.
func Import(ctx context.Context, recipes service.RecipeService, rows []RecipeRow, dryRun bool) (*ImportReport, error) {
	report := &ImportReport{}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if row.Err != nil {
			report.Failed = append(report.Failed, RowError{Row: row.Row, Err: row.Err})
			continue
		}

		var err error
		if dryRun {
			_, err = service.ValidateRecipe(row.Input)
		} else {
			_, err = recipes.CreateRecipe(ctx, row.Input)
		}
		if err != nil {
			report.Failed = append(report.Failed, RowError{Row: row.Row, Err: err})
			continue
		}
		report.Created++
	}

	logger.Info("Recipe import finished", map[string]interface{}{
		"rows":    len(rows),
		"created": report.Created,
		"failed":  len(report.Failed),
		"dry_run": dryRun,
	})
	return report, nil
}
