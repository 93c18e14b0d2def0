package repository

import (
	"context"
	"errors"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/pkg/logger"
	"gorm.io/gorm"
)

// RecipeRepository is the hosted recipe catalog.
type RecipeRepository interface {
	FindAll(ctx context.Context) ([]model.Recipe, error)
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id string) error
}

var _ RecipeRepository = (*recipeRepository)(nil)

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) FindAll(ctx context.Context) ([]model.Recipe, error) {
	logger.Debug("Finding all recipes in database")

	var recipes []model.Recipe
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes in database", err)
		return nil, err
	}

	logger.Debug("Recipes found in database", map[string]interface{}{
		"count": len(recipes),
	})
	return recipes, nil
}

func (r *recipeRepository) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	logger.Debug("Finding recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to find recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"title":    recipe.Title,
		"category": recipe.Category,
	})

	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"title": recipe.Title,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
		"title":     recipe.Title,
	})
	return nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	logger.Debug("Updating recipe in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})

	result := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", recipe.ID).Select("*").Omit("id", "created_at").Updates(recipe)
	if result.Error != nil {
		logger.Error("Failed to update recipe in database", result.Error, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	logger.Debug("Recipe updated in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Recipe{})
	if result.Error != nil {
		logger.Error("Failed to delete recipe from database", result.Error, map[string]interface{}{
			"recipe_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}
