package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/middleware"
	"github.com/mykitchen/kitchen/internal/state"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// Quantities below 1 are clamped, so 0 is accepted here.
type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func cartResponse(cart state.Cart) gin.H {
	return gin.H{
		"entries": cart.Entries,
		"count":   cart.Count(),
		"total":   cart.Total,
	}
}

// GetCart returns the cart and its total
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart := ctrl.cartService.Cart()

	middleware.GetLoggerFromContext(c).Debug("Cart fetched", map[string]interface{}{
		"count": cart.Count(),
		"total": cart.Total,
	})
	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddToCart adds a recipe, merging with an existing entry
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "add to cart")
		return
	}

	cart, err := ctrl.cartService.AddRecipe(c.Request.Context(), req.RecipeID, req.Quantity)
	if err != nil {
		respondError(c, err, "add recipe to cart", map[string]interface{}{
			"recipe_id": req.RecipeID,
			"quantity":  req.Quantity,
		})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Recipe added to cart", map[string]interface{}{
		"recipe_id": req.RecipeID,
		"quantity":  req.Quantity,
		"total":     cart.Total,
	})
	c.JSON(http.StatusCreated, cartResponse(cart))
}

// UpdateCartEntry sets an entry's quantity
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartEntry(c *gin.Context) {
	id := c.Param("id")

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "update cart")
		return
	}

	cart, err := ctrl.cartService.SetQuantity(id, *req.Quantity)
	if err != nil {
		respondError(c, err, "update cart entry", map[string]interface{}{"recipe_id": id})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// IncrementCartEntry raises an entry's quantity by one
// POST /api/v1/cart/:id/increment
func (ctrl *CartController) IncrementCartEntry(c *gin.Context) {
	ctrl.mutate(c, "increment cart entry", ctrl.cartService.Increment)
}

// DecrementCartEntry lowers an entry's quantity by one, never below 1
// POST /api/v1/cart/:id/decrement
func (ctrl *CartController) DecrementCartEntry(c *gin.Context) {
	ctrl.mutate(c, "decrement cart entry", ctrl.cartService.Decrement)
}

// RemoveFromCart removes an entry
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	ctrl.mutate(c, "remove cart entry", ctrl.cartService.Remove)
}

func (ctrl *CartController) mutate(c *gin.Context, context string, op func(string) (state.Cart, error)) {
	id := c.Param("id")

	cart, err := op(id)
	if err != nil {
		respondError(c, err, context, map[string]interface{}{"recipe_id": id})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	cart := ctrl.cartService.Clear()

	middleware.GetLoggerFromContext(c).Info("Cart cleared", nil)
	c.JSON(http.StatusOK, cartResponse(cart))
}

// ReconcileCart checks the cart against the catalog now
// POST /api/v1/cart/reconcile
func (ctrl *CartController) ReconcileCart(c *gin.Context) {
	report, err := ctrl.cartService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err, "reconcile cart", nil)
		return
	}

	resp := cartResponse(ctrl.cartService.Cart())
	resp["report"] = report
	c.JSON(http.StatusOK, resp)
}
