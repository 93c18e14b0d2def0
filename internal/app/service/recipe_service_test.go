package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/state"
)

func TestValidateRecipe(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *RecipeInput)
		wantField string
	}{
		{"valid", func(in *RecipeInput) {}, ""},
		{"missing title", func(in *RecipeInput) { in.Title = "  " }, "title"},
		{"missing method", func(in *RecipeInput) { in.Method = "" }, "method"},
		{"method too long", func(in *RecipeInput) { in.Method = strings.Repeat("a", 41) }, "method"},
		{"one image", func(in *RecipeInput) { in.Images = in.Images[:1] }, "images"},
		{"duplicate image", func(in *RecipeInput) { in.Images = []string{"https://x.io/a.jpg", "https://x.io/a.jpg"} }, "images"},
		{"non-http image", func(in *RecipeInput) { in.Images = []string{"https://x.io/a.jpg", "file:///b.jpg"} }, "images"},
		{"zero cooking time", func(in *RecipeInput) { in.CookingMinutes = 0 }, "cooking_minutes"},
		{"zero price", func(in *RecipeInput) { in.Price = 0 }, "price"},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"blank ingredient", func(in *RecipeInput) { in.Ingredients = []string{"rice", " "} }, "ingredients"},
		{"duplicate ingredient", func(in *RecipeInput) { in.Ingredients = []string{"rice", "rice "} }, "ingredients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("Plov")
			tt.mutate(&in)

			_, err := ValidateRecipe(in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestValidateRecipe_MethodLimitCountsCharacters(t *testing.T) {
	in := validInput("Plov")
	in.Method = strings.Repeat("ж", MaxMethodLength)

	_, err := ValidateRecipe(in)
	assert.NoError(t, err)
}

func TestRecipeDraft(t *testing.T) {
	var d RecipeDraft

	require.NoError(t, d.AddIngredient(" rice "))
	assert.ErrorIs(t, d.AddIngredient("rice"), ErrDuplicateValue)
	assert.ErrorIs(t, d.AddIngredient("   "), ErrEmptyValue)
	require.NoError(t, d.AddImage("https://x.io/1.jpg"))
	assert.ErrorIs(t, d.AddImage("https://x.io/1.jpg"), ErrDuplicateValue)

	assert.Equal(t, []string{"rice"}, d.Ingredients)
	assert.Equal(t, []string{"https://x.io/1.jpg"}, d.Images)
}

func TestRecipeService_CreateAndGet(t *testing.T) {
	f := setupFixture(t)
	svc := NewRecipeService(f.repo, f.store)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, validInput("  Plov "))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Plov", created.Title)
	assert.Equal(t, "45 minutes", created.CookingTime())

	got, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetRecipe(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	all, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecipeService_CreateRejectsInvalid(t *testing.T) {
	f := setupFixture(t)
	svc := NewRecipeService(f.repo, f.store)

	in := validInput("Plov")
	in.Images = nil
	_, err := svc.CreateRecipe(context.Background(), in)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	all, err := svc.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecipeService_UpdateRepricesCart(t *testing.T) {
	f := setupFixture(t)
	svc := NewRecipeService(f.repo, f.store)
	ctx := context.Background()

	recipe := f.seed(t, "Soup", 5)
	f.store.Dispatch(state.AddOrMerge{Entry: model.EntryFromRecipe(recipe, 2)})

	in := validInput("Soup")
	in.Price = 7
	updated, err := svc.UpdateRecipe(ctx, recipe.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.Price)

	cart := f.store.Snapshot().Cart
	assert.Equal(t, 14.0, cart.Total)

	_, err = svc.UpdateRecipe(ctx, "missing", in)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeService_DeleteRemovesFromCart(t *testing.T) {
	f := setupFixture(t)
	svc := NewRecipeService(f.repo, f.store)
	ctx := context.Background()

	keep := f.seed(t, "Keep", 3)
	drop := f.seed(t, "Drop", 4)
	f.store.Dispatch(state.AddOrMerge{Entry: model.EntryFromRecipe(keep, 1)})
	f.store.Dispatch(state.AddOrMerge{Entry: model.EntryFromRecipe(drop, 2)})

	require.NoError(t, svc.DeleteRecipe(ctx, drop.ID))

	cart := f.store.Snapshot().Cart
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, keep.ID, cart.Entries[0].RecipeID)
	assert.Equal(t, 3.0, cart.Total)

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, drop.ID), ErrRecipeNotFound)
}

func TestRecipeService_BackendErrorLeavesStateUnchanged(t *testing.T) {
	f := setupFixture(t)
	svc := NewRecipeService(f.repo, f.store)

	recipe := f.seed(t, "Soup", 5)
	f.store.Dispatch(state.AddOrMerge{Entry: model.EntryFromRecipe(recipe, 1)})
	before := f.store.Snapshot()

	boom := errors.New("backend unavailable")
	f.repo.failOn(recipe.ID, boom)

	_, err := svc.UpdateRecipe(context.Background(), recipe.ID, validInput("Soup"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before.Cart, f.store.Snapshot().Cart)
}
