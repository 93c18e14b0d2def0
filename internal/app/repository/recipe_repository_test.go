package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/db"
)

func setupRecipeTest(t *testing.T) RecipeRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewRecipeRepository(testDB)
}

func sampleRecipe(title string) *model.Recipe {
	return &model.Recipe{
		Title:          title,
		Method:         "Boil, then simmer",
		Images:         []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		CookingMinutes: 30,
		Price:          12.5,
		Ingredients:    []string{"rice", "carrot"},
		Category:       "dinner",
	}
}

func TestRecipeRepository_CreateAndFind(t *testing.T) {
	repo := setupRecipeTest(t)
	ctx := context.Background()

	recipe := sampleRecipe("Plov")
	require.NoError(t, repo.Create(ctx, recipe))
	assert.NotEmpty(t, recipe.ID)

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plov", found.Title)
	assert.Equal(t, []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"}, []string(found.Images))
	assert.Equal(t, []string{"rice", "carrot"}, []string(found.Ingredients))
	assert.Equal(t, 30, found.CookingMinutes)
	assert.Equal(t, 12.5, found.Price)
}

func TestRecipeRepository_FindByID_NotFound(t *testing.T) {
	repo := setupRecipeTest(t)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeRepository_FindAllNewestFirst(t *testing.T) {
	repo := setupRecipeTest(t)
	ctx := context.Background()

	older := sampleRecipe("Older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, sampleRecipe("Newer")))

	recipes, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Newer", recipes[0].Title)
	assert.Equal(t, "Older", recipes[1].Title)
}

func TestRecipeRepository_Update(t *testing.T) {
	repo := setupRecipeTest(t)
	ctx := context.Background()

	recipe := sampleRecipe("Soup")
	require.NoError(t, repo.Create(ctx, recipe))

	recipe.Price = 20
	recipe.Ingredients = []string{"beet"}
	require.NoError(t, repo.Update(ctx, recipe))

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, found.Price)
	assert.Equal(t, []string{"beet"}, []string(found.Ingredients))

	ghost := sampleRecipe("Ghost")
	ghost.ID = "ghost"
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
}

func TestRecipeRepository_Delete(t *testing.T) {
	repo := setupRecipeTest(t)
	ctx := context.Background()

	recipe := sampleRecipe("Salad")
	require.NoError(t, repo.Create(ctx, recipe))

	require.NoError(t, repo.Delete(ctx, recipe.ID))
	assert.ErrorIs(t, repo.Delete(ctx, recipe.ID), ErrNotFound)

	_, err := repo.FindByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
