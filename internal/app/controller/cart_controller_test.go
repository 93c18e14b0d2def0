package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartControllerTest(t *testing.T) *testEnv {
	env := setupControllerTest(t)
	ctrl := NewCartController(env.cart)

	env.router.GET("/cart", ctrl.GetCart)
	env.router.POST("/cart", ctrl.AddToCart)
	env.router.DELETE("/cart", ctrl.ClearCart)
	env.router.POST("/cart/reconcile", ctrl.ReconcileCart)
	env.router.PUT("/cart/:id", ctrl.UpdateCartEntry)
	env.router.DELETE("/cart/:id", ctrl.RemoveFromCart)
	env.router.POST("/cart/:id/increment", ctrl.IncrementCartEntry)
	env.router.POST("/cart/:id/decrement", ctrl.DecrementCartEntry)
	return env
}

func TestCartController_GetCart_Empty(t *testing.T) {
	env := setupCartControllerTest(t)

	w, resp := env.do(t, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["count"])
	assert.Equal(t, float64(0), resp["total"])
}

func TestCartController_AddToCart_Merges(t *testing.T) {
	env := setupCartControllerTest(t)
	r := env.seedRecipe(t, "Borscht", 4)

	w, _ := env.do(t, http.MethodPost, "/cart", map[string]interface{}{"recipe_id": r.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := env.do(t, http.MethodPost, "/cart", map[string]interface{}{"recipe_id": r.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, float64(12), resp["total"]) // 4 * 3
}

func TestCartController_AddToCart_Errors(t *testing.T) {
	env := setupCartControllerTest(t)
	r := env.seedRecipe(t, "Borscht", 4)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"missing recipe", map[string]interface{}{"recipe_id": "nope", "quantity": 1}, http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"zero quantity", map[string]interface{}{"recipe_id": r.ID, "quantity": 0}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
		{"no recipe id", map[string]interface{}{"quantity": 1}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/cart", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, resp["error"])
		})
	}
}

func TestCartController_EntryMutations(t *testing.T) {
	env := setupCartControllerTest(t)
	r := env.seedRecipe(t, "Borscht", 2)
	_, _ = env.do(t, http.MethodPost, "/cart", map[string]interface{}{"recipe_id": r.ID, "quantity": 1})

	w, resp := env.do(t, http.MethodPost, "/cart/"+r.ID+"/increment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), resp["total"])

	w, resp = env.do(t, http.MethodPut, "/cart/"+r.ID, map[string]interface{}{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), resp["total"])

	w, resp = env.do(t, http.MethodPut, "/cart/"+r.ID, map[string]interface{}{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), resp["total"], "quantity clamps to 1")

	w, resp = env.do(t, http.MethodPost, "/cart/"+r.ID+"/decrement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), resp["total"])

	w, resp = env.do(t, http.MethodDelete, "/cart/"+r.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["count"])

	w, resp = env.do(t, http.MethodPost, "/cart/"+r.ID+"/increment", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CART_ENTRY_NOT_FOUND", resp["error"])
}

func TestCartController_ClearAndReconcile(t *testing.T) {
	env := setupCartControllerTest(t)
	keep := env.seedRecipe(t, "Keep", 2)
	gone := env.seedRecipe(t, "Gone", 3)
	_, _ = env.do(t, http.MethodPost, "/cart", map[string]interface{}{"recipe_id": keep.ID, "quantity": 1})
	_, _ = env.do(t, http.MethodPost, "/cart", map[string]interface{}{"recipe_id": gone.ID, "quantity": 1})

	require.NoError(t, env.recipeRepo.Delete(context.Background(), gone.ID))

	w, resp := env.do(t, http.MethodPost, "/cart/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["count"])
	report := resp["report"].(map[string]interface{})
	assert.Equal(t, []interface{}{gone.ID}, report["removed"])

	w, resp = env.do(t, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp["count"])
	assert.Equal(t, []interface{}{}, resp["entries"], "an empty cart is a list, not null")
}
