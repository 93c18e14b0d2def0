package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mykitchen/kitchen/internal/app/service"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

var header = []interface{}{"Title", "Method", "Images", "Cooking_Time", "Price", "Ingredients", "Category"}

func TestReadRecipes(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		header,
		{"Plov", "Fry then steam", "https://a/1.jpg; https://a/2.jpg", "90 minutes", "12.5", "rice\ncarrot\n", "dinner"},
		{},
		{"Tea", "Brew", "https://a/3.jpg", "5", "abc", "leaves", ""},
	})

	rows, err := ReadRecipes(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	plov := rows[0]
	assert.Equal(t, 2, plov.Row)
	assert.NoError(t, plov.Err)
	assert.Equal(t, service.RecipeInput{
		Title:          "Plov",
		Method:         "Fry then steam",
		Images:         []string{"https://a/1.jpg", "https://a/2.jpg"},
		CookingMinutes: 90,
		Price:          12.5,
		Ingredients:    []string{"rice", "carrot"},
		Category:       "dinner",
	}, plov.Input)

	tea := rows[1]
	assert.Equal(t, 4, tea.Row)
	assert.Error(t, tea.Err)
	assert.Equal(t, 5, tea.Input.CookingMinutes)
}

func TestReadRecipes_MissingColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{{"Title", "Method"}})

	_, err := ReadRecipes(buf)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadRecipes_NotAWorkbook(t *testing.T) {
	_, err := ReadRecipes(bytes.NewBufferString("title,method"))
	assert.Error(t, err)
}

func TestWriteCharts(t *testing.T) {
	charts := &service.Charts{
		TotalRecipes: 3,
		Categories:   []service.CategoryCount{{Category: "dinner", Count: 2}, {Category: service.Uncategorized, Count: 1}},
		Titles:       []service.TitleCount{{Title: "Plov", Count: 2}},
		CookingTimes: []service.CookingTimePoint{{RecipeID: "r1", Title: "Plov", Minutes: 90}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCharts(&buf, charts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCategories, SheetTitles, SheetCookingTimes}, f.GetSheetList())

	rows, err := f.GetRows(SheetCategories)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Category", "Recipes"}, {"dinner", "2"}, {service.Uncategorized, "1"}}, rows)

	rows, err = f.GetRows(SheetCookingTimes)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "Plov", "90"}, rows[1])
}
