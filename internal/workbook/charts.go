package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mykitchen/kitchen/internal/app/service"
)

const (
	SheetCategories   = "Categories"
	SheetTitles       = "Titles"
	SheetCookingTimes = "Cooking times"
)

// WriteCharts writes one sheet per chart series.
func WriteCharts(w io.Writer, charts *service.Charts) error {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet instead of leaving an empty one.
	if err := f.SetSheetName(f.GetSheetName(0), SheetCategories); err != nil {
		return err
	}

	categories := [][]interface{}{{"Category", "Recipes"}}
	for _, c := range charts.Categories {
		categories = append(categories, []interface{}{c.Category, c.Count})
	}
	if err := writeRows(f, SheetCategories, categories); err != nil {
		return err
	}

	titles := [][]interface{}{{"Title", "Recipes"}}
	for _, t := range charts.Titles {
		titles = append(titles, []interface{}{t.Title, t.Count})
	}
	if err := writeSheet(f, SheetTitles, titles); err != nil {
		return err
	}

	times := [][]interface{}{{"Recipe ID", "Title", "Minutes"}}
	for _, p := range charts.CookingTimes {
		times = append(times, []interface{}{p.RecipeID, p.Title, p.Minutes})
	}
	if err := writeSheet(f, SheetCookingTimes, times); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
