package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/middleware"
)

type RecipeController struct {
	recipeService service.RecipeService
}

func NewRecipeController(recipeService service.RecipeService) *RecipeController {
	return &RecipeController{
		recipeService: recipeService,
	}
}

// ListRecipes returns the catalog, newest first
// GET /api/v1/recipes
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	recipes, err := ctrl.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		respondError(c, err, "list recipes", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// GetRecipe returns one recipe
// GET /api/v1/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	id := c.Param("id")

	recipe, err := ctrl.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get recipe", map[string]interface{}{"recipe_id": id})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
	})
}

// CreateRecipe validates and stores a new recipe
// POST /api/v1/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	var req service.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "create recipe")
		return
	}

	recipe, err := ctrl.recipeService.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create recipe", map[string]interface{}{"title": req.Title})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"recipe": recipe,
	})
}

// UpdateRecipe replaces a recipe's fields
// PUT /api/v1/recipes/:id
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	id := c.Param("id")

	var req service.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "update recipe")
		return
	}

	recipe, err := ctrl.recipeService.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "update recipe", map[string]interface{}{"recipe_id": id})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
	})
}

// DeleteRecipe deletes a recipe and drops it from the cart
// DELETE /api/v1/recipes/:id
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")

	if err := ctrl.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete recipe", map[string]interface{}{"recipe_id": id})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted",
	})
}
