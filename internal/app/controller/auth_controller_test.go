package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mykitchen/kitchen/internal/middleware"
)

func setupAuthControllerTest(t *testing.T) *testEnv {
	env := setupControllerTest(t)
	ctrl := NewAuthController(env.auth)
	auth := middleware.NewAuthMiddleware(env.auth)

	env.auth.Restore(context.Background())

	env.router.POST("/auth/register", ctrl.Register)
	env.router.POST("/auth/login", ctrl.Login)
	env.router.POST("/auth/login/federated", ctrl.LoginFederated)
	env.router.POST("/auth/logout", auth.Authenticate(), ctrl.Logout)
	env.router.GET("/auth/me", auth.Authenticate(), ctrl.Me)
	return env
}

func registerBody() map[string]interface{} {
	return map[string]interface{}{
		"email":       "cook@example.com",
		"password":    "secret1",
		"displayName": "Cook",
		"photoURL":    "https://example.com/cook.png",
	}
}

func TestAuthController_RegisterMeLogout(t *testing.T) {
	env := setupAuthControllerTest(t)

	w, resp := env.do(t, http.MethodPost, "/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)
	token := resp["token"].(string)
	require.NotEmpty(t, token)
	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "Cook", user["displayName"])
	assert.NotContains(t, user, "token")

	req := func(method, path string) int {
		r, _ := http.NewRequest(method, path, nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, req(http.MethodGet, "/auth/me"))
	assert.Equal(t, http.StatusOK, req(http.MethodPost, "/auth/logout"))
	assert.Equal(t, http.StatusUnauthorized, req(http.MethodGet, "/auth/me"))
}

func TestAuthController_RegisterErrors(t *testing.T) {
	env := setupAuthControllerTest(t)

	w, _ := env.do(t, http.MethodPost, "/auth/register", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := env.do(t, http.MethodPost, "/auth/register", registerBody())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_EMAIL_EXISTS", resp["error"])

	body := registerBody()
	body["email"] = "other@example.com"
	body["password"] = "123"
	body["photoURL"] = ""
	w, resp = env.do(t, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := resp["fields"].(map[string]interface{})
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "photoURL")
}

func TestAuthController_Login(t *testing.T) {
	env := setupAuthControllerTest(t)
	_, _ = env.do(t, http.MethodPost, "/auth/register", registerBody())

	w, resp := env.do(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "cook@example.com", "password": "nope12"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", resp["error"])

	w, resp = env.do(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "cook@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp["token"])

	w, _ = env.do(t, http.MethodPost, "/auth/login", map[string]interface{}{"email": "cook@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_FederatedUnsupportedLocally(t *testing.T) {
	env := setupAuthControllerTest(t)

	w, resp := env.do(t, http.MethodPost, "/auth/login/federated", map[string]interface{}{"id_token": "google"})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "AUTH_UNSUPPORTED", resp["error"])
}
