// Package workbook reads recipe imports from and writes chart exports to xlsx
// workbooks.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/service"
)

// Import columns, matched case-insensitively against the header row.
const (
	ColTitle       = "title"
	ColMethod      = "method"
	ColImages      = "images"
	ColCookingTime = "cooking_time"
	ColPrice       = "price"
	ColIngredients = "ingredients"
	ColCategory    = "category"
)

var requiredColumns = []string{ColTitle, ColMethod, ColImages, ColCookingTime, ColPrice, ColIngredients}

var ErrMissingColumn = errors.New("workbook: missing column")

// RecipeRow is one data row. Err is set when the row could not be parsed;
// validation happens later in the recipe service.
type RecipeRow struct {
	Row   int
	Input service.RecipeInput
	Err   error
}

// ReadRecipes parses the first sheet of an xlsx workbook.
func ReadRecipes(r io.Reader) ([]RecipeRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook: no sheets found")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("workbook: sheet is empty")
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []RecipeRow
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		rr := RecipeRow{
			Row: i + 2, // 1-based, after the header
			Input: service.RecipeInput{
				Title:          cell(row, ColTitle),
				Method:         cell(row, ColMethod),
				Images:         splitList(cell(row, ColImages)),
				CookingMinutes: model.ParseCookingTime(cell(row, ColCookingTime)),
				Ingredients:    splitList(cell(row, ColIngredients)),
				Category:       cell(row, ColCategory),
			},
		}

		if raw := cell(row, ColPrice); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rr.Err = fmt.Errorf("row %d: price %q is not a number", rr.Row, raw)
			}
			rr.Input.Price = price
		}
		out = append(out, rr)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// splitList splits a cell on newlines and semicolons.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
