package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/state"
)

// StagingController drives the recipe detail view: focus a recipe, pick a
// quantity, commit it to the cart.
type StagingController struct {
	cartService service.CartService
}

func NewStagingController(cartService service.CartService) *StagingController {
	return &StagingController{
		cartService: cartService,
	}
}

type FocusRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

func stagingResponse(s state.Staging) gin.H {
	return gin.H{
		"recipe":   s.Recipe,
		"quantity": s.Quantity,
	}
}

// GetStaging returns the staged recipe and quantity
// GET /api/v1/staging
func (ctrl *StagingController) GetStaging(c *gin.Context) {
	c.JSON(http.StatusOK, stagingResponse(ctrl.cartService.Staged()))
}

// Focus loads a recipe and stages it with quantity 1
// POST /api/v1/staging/focus
func (ctrl *StagingController) Focus(c *gin.Context) {
	var req FocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "focus")
		return
	}

	if err := <-ctrl.cartService.FocusRecipe(c.Request.Context(), req.RecipeID); err != nil {
		respondError(c, err, "focus recipe", map[string]interface{}{"recipe_id": req.RecipeID})
		return
	}

	c.JSON(http.StatusOK, stagingResponse(ctrl.cartService.Staged()))
}

// Increment raises the staged quantity
// POST /api/v1/staging/increment
func (ctrl *StagingController) Increment(c *gin.Context) {
	c.JSON(http.StatusOK, stagingResponse(ctrl.cartService.IncrementStaged()))
}

// Decrement lowers the staged quantity, never below 1
// POST /api/v1/staging/decrement
func (ctrl *StagingController) Decrement(c *gin.Context) {
	c.JSON(http.StatusOK, stagingResponse(ctrl.cartService.DecrementStaged()))
}

// Commit adds the staged recipe to the cart
// POST /api/v1/staging/commit
func (ctrl *StagingController) Commit(c *gin.Context) {
	cart, err := ctrl.cartService.CommitStaged()
	if err != nil {
		respondError(c, err, "commit staged recipe", nil)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}
