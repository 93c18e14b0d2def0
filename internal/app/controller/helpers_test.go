package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/db"
	"github.com/mykitchen/kitchen/internal/identity"
	"github.com/mykitchen/kitchen/internal/middleware"
	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/mykitchen/kitchen/pkg/util"
)

func TestMain(m *testing.M) {
	logger.Initialize(logger.Config{Level: "disabled"})
	util.PasswordCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	router     *gin.Engine
	store      *store.Store
	recipeRepo repository.RecipeRepository
	recipes    service.RecipeService
	cart       service.CartService
	auth       service.AuthService
}

func setupControllerTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	st := store.New(nil)
	t.Cleanup(func() {
		st.Close()
		db.CleanupTestDB(testDB)
	})

	recipeRepo := repository.NewRecipeRepository(testDB)
	provider := identity.NewLocalProvider(repository.NewUserRepository(testDB), "test-secret", time.Hour, nil)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	return &testEnv{
		router:     router,
		store:      st,
		recipeRepo: recipeRepo,
		recipes:    service.NewRecipeService(recipeRepo, st),
		cart:       service.NewCartService(recipeRepo, st),
		auth:       service.NewAuthService(provider, st),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func validRecipeInput(title string) service.RecipeInput {
	return service.RecipeInput{
		Title:          title,
		Method:         "Simmer slowly",
		Images:         []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		CookingMinutes: 30,
		Price:          12.5,
		Ingredients:    []string{"water", "salt"},
		Category:       "soup",
	}
}

func (e *testEnv) seedRecipe(t *testing.T, title string, price float64) *model.Recipe {
	in := validRecipeInput(title)
	in.Price = price
	r, err := e.recipes.CreateRecipe(context.Background(), in)
	require.NoError(t, err)
	return r
}
