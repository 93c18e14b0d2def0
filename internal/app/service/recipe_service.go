package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/state"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/mykitchen/kitchen/pkg/util"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrEmptyValue     = errors.New("value is empty")
	ErrDuplicateValue = errors.New("value already added")
)

const (
	MaxMethodLength = 40
	MinRecipeImages = 2
)

// RecipeInput is the editable part of a recipe.
type RecipeInput struct {
	Title          string   `json:"title"`
	Method         string   `json:"method"`
	Images         []string `json:"images"`
	CookingMinutes int      `json:"cooking_minutes"`
	Price          float64  `json:"price"`
	Ingredients    []string `json:"ingredients"`
	Category       string   `json:"category"`
}

// RecipeDraft collects ingredients and images one at a time before a recipe is
// submitted.
type RecipeDraft struct {
	RecipeInput
}

// AddIngredient appends a trimmed ingredient.
func (d *RecipeDraft) AddIngredient(value string) error {
	return appendDistinct(&d.Ingredients, value)
}

// AddImage appends a trimmed image URL.
func (d *RecipeDraft) AddImage(value string) error {
	return appendDistinct(&d.Images, value)
}

func appendDistinct(list *[]string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}
	for _, existing := range *list {
		if existing == value {
			return ErrDuplicateValue
		}
	}
	*list = append(*list, value)
	return nil
}

// ValidateRecipe checks in and returns a trimmed copy. Failures are reported as
// a *ValidationError.
func ValidateRecipe(in RecipeInput) (RecipeInput, error) {
	out := RecipeInput{
		Title:          strings.TrimSpace(in.Title),
		Method:         strings.TrimSpace(in.Method),
		CookingMinutes: in.CookingMinutes,
		Price:          in.Price,
		Category:       strings.TrimSpace(in.Category),
		Images:         util.NormalizeList(in.Images),
		Ingredients:    util.NormalizeList(in.Ingredients),
	}

	fields := fieldErrors{}

	if out.Title == "" {
		fields.add("title", "title is required")
	}
	if out.Method == "" {
		fields.add("method", "method is required")
	} else if utf8.RuneCountInString(out.Method) > MaxMethodLength {
		fields.add("method", "method must be at most 40 characters")
	}

	if len(out.Images) != len(in.Images) {
		fields.add("images", "images must be non-empty and distinct")
	}
	if len(out.Images) < MinRecipeImages {
		fields.add("images", "at least two images are required")
	}
	for _, img := range out.Images {
		if !util.IsHTTPURL(img) {
			fields.add("images", "images must be http(s) URLs")
			break
		}
	}

	if out.CookingMinutes <= 0 {
		fields.add("cooking_minutes", "cooking time must be a positive number of minutes")
	}
	if out.Price <= 0 {
		fields.add("price", "price must be greater than zero")
	}

	if len(out.Ingredients) != len(in.Ingredients) {
		fields.add("ingredients", "ingredients must be non-empty and distinct")
	}
	if len(out.Ingredients) == 0 {
		fields.add("ingredients", "at least one ingredient is required")
	}

	return out, fields.err()
}

func (in RecipeInput) apply(r *model.Recipe) {
	r.Title = in.Title
	r.Method = in.Method
	r.Images = in.Images
	r.CookingMinutes = in.CookingMinutes
	r.Price = in.Price
	r.Ingredients = in.Ingredients
	r.Category = in.Category
}

type RecipeService interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, in RecipeInput) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

type recipeService struct {
	recipeRepo repository.RecipeRepository
	store      StateStore
}

func NewRecipeService(recipeRepo repository.RecipeRepository, store StateStore) RecipeService {
	return &recipeService{recipeRepo: recipeRepo, store: store}
}

func (s *recipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	logger.Debug("Listing recipes")

	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list recipes", err)
		return nil, err
	}

	logger.Info("Recipes listed", map[string]interface{}{
		"count": len(recipes),
	})
	return recipes, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Warn("Recipe not found", map[string]interface{}{
			"recipe_id": id,
		})
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		logger.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, in RecipeInput) (*model.Recipe, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"title": in.Title,
	})

	valid, err := ValidateRecipe(in)
	if err != nil {
		logger.Warn("Recipe rejected", map[string]interface{}{
			"title": in.Title,
			"error": err.Error(),
		})
		return nil, err
	}

	recipe := &model.Recipe{}
	valid.apply(recipe)
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		logger.Error("Failed to create recipe", err, map[string]interface{}{
			"title": recipe.Title,
		})
		return nil, err
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"title":     recipe.Title,
	})
	return recipe, nil
}

// UpdateRecipe replaces the editable fields of id. A cart entry for the recipe
// picks up the new price.
func (s *recipeService) UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*model.Recipe, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": id,
	})

	valid, err := ValidateRecipe(in)
	if err != nil {
		return nil, err
	}

	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	valid.apply(recipe)

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		logger.Error("Failed to update recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}

	s.store.Dispatch(state.Reprice{RecipeID: recipe.ID, UnitPrice: recipe.Price})

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": id,
	})
	return recipe, nil
}

// DeleteRecipe removes id from the catalog and then from the cart.
func (s *recipeService) DeleteRecipe(ctx context.Context, id string) error {
	logger.Info("Deleting recipe", map[string]interface{}{
		"recipe_id": id,
	})

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Cannot delete: recipe not found", map[string]interface{}{
				"recipe_id": id,
			})
			return ErrRecipeNotFound
		}
		logger.Error("Failed to delete recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}

	s.store.Dispatch(state.Remove{RecipeID: id})

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}
