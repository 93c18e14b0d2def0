package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mykitchen/kitchen/config"
	"github.com/mykitchen/kitchen/internal/app/controller"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/db"
	"github.com/mykitchen/kitchen/internal/identity"
	"github.com/mykitchen/kitchen/internal/mirror"
	"github.com/mykitchen/kitchen/internal/router"
	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/internal/websocket"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/mykitchen/kitchen/pkg/util"
)

func TestMain(m *testing.M) {
	logger.Initialize(logger.Config{Level: "disabled"})
	util.PasswordCost = bcrypt.MinCost
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestServer is one run of the client core. Two servers built on the same
// mirror backend behave like a restart.
type TestServer struct {
	Router      *gin.Engine
	Store       *store.Store
	AuthService service.AuthService
}

func newTestServer(t *testing.T, testDB *gorm.DB, backend mirror.Backend) *TestServer {
	st := store.New(mirror.New(backend, time.Second))
	t.Cleanup(st.Close)

	recipeRepo := repository.NewRecipeRepository(testDB)
	provider := identity.NewLocalProvider(repository.NewUserRepository(testDB), "test-secret", time.Hour, nil)

	authService := service.NewAuthService(provider, st)
	recipeService := service.NewRecipeService(recipeRepo, st)
	cartService := service.NewCartService(recipeRepo, st)

	cfg := &config.Config{Server: config.ServerConfig{GinMode: gin.TestMode}}
	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewRecipeController(recipeService),
		controller.NewStagingController(cartService),
		controller.NewCartController(cartService),
		controller.NewAnalyticsController(service.NewAnalyticsService(recipeRepo)),
		controller.NewUploadController(nil),
		controller.NewWebSocketController(websocket.NewHub(), nil),
		authService,
		cfg,
	).Setup()

	return &TestServer{Router: r, Store: st, AuthService: authService}
}

func (s *TestServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func setupDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func TestIntegration_ShoppingFlow(t *testing.T) {
	testDB := setupDB(t)
	backend := mirror.NewMemoryBackend()
	srv := newTestServer(t, testDB, backend)

	register := map[string]interface{}{
		"email":       "cook@example.com",
		"password":    "secret1",
		"displayName": "Cook",
		"photoURL":    "https://img.example.com/me.jpg",
	}

	t.Run("auth waits for restore", func(t *testing.T) {
		code, _ := srv.do(t, http.MethodPost, "/api/v1/auth/register", "", register)
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	srv.AuthService.Restore(context.Background())

	code, resp := srv.do(t, http.MethodPost, "/api/v1/auth/register", "", register)
	require.Equal(t, http.StatusCreated, code, resp)
	token := resp["token"].(string)
	require.NotEmpty(t, token)

	code, resp = srv.do(t, http.MethodPost, "/api/v1/recipes", token, map[string]interface{}{
		"title":           "Plov",
		"method":          "Fry then steam",
		"images":          []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		"cooking_minutes": 90,
		"price":           12.5,
		"ingredients":     []string{"rice", "carrot"},
		"category":        "dinner",
	})
	require.Equal(t, http.StatusCreated, code, resp)
	recipeID := resp["recipe"].(map[string]interface{})["id"].(string)

	code, resp = srv.do(t, http.MethodPost, "/api/v1/staging/focus", token, map[string]string{"recipe_id": recipeID})
	require.Equal(t, http.StatusOK, code, resp)
	assert.EqualValues(t, 1, resp["quantity"])

	code, resp = srv.do(t, http.MethodPost, "/api/v1/staging/increment", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, resp["quantity"])

	code, resp = srv.do(t, http.MethodPost, "/api/v1/staging/commit", token, nil)
	require.Equal(t, http.StatusOK, code, resp)
	assert.EqualValues(t, 2, resp["count"])
	assert.EqualValues(t, 25, resp["total"])

	t.Run("price change reprices the cart", func(t *testing.T) {
		code, resp := srv.do(t, http.MethodPut, "/api/v1/recipes/"+recipeID, token, map[string]interface{}{
			"title":           "Plov",
			"method":          "Fry then steam",
			"images":          []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
			"cooking_minutes": 90,
			"price":           10,
			"ingredients":     []string{"rice", "carrot"},
			"category":        "dinner",
		})
		require.Equal(t, http.StatusOK, code, resp)

		code, resp = srv.do(t, http.MethodGet, "/api/v1/cart", token, nil)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 20, resp["total"])
	})

	t.Run("restart restores session and cart", func(t *testing.T) {
		restarted := newTestServer(t, testDB, backend)
		restarted.AuthService.Restore(context.Background())

		current := restarted.AuthService.Current()
		require.True(t, current.Ready)
		require.True(t, current.SignedIn())

		code, resp := restarted.do(t, http.MethodGet, "/api/v1/cart", token, nil)
		require.Equal(t, http.StatusOK, code, resp)
		assert.EqualValues(t, 2, resp["count"])
		assert.EqualValues(t, 20, resp["total"])
	})

	t.Run("logout closes the protected routes", func(t *testing.T) {
		code, _ := srv.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, code)

		code, _ = srv.do(t, http.MethodGet, "/api/v1/cart", token, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}
