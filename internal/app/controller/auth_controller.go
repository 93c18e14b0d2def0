package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type FederatedLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// userView is an identity without its session token.
func userView(id *model.Identity) gin.H {
	return gin.H{
		"uid":         id.UID,
		"email":       id.Email,
		"displayName": id.DisplayName,
		"photoURL":    id.PhotoURL,
	}
}

func sessionResponse(id *model.Identity) gin.H {
	return gin.H{
		"user":  userView(id),
		"token": id.Token,
	}
}

// Register creates an account and signs it in
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "registration")
		return
	}

	id, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "register user", map[string]interface{}{"email": req.Email})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(id))
}

// Login signs in with email and password
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "login")
		return
	}

	id, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login user", map[string]interface{}{"email": req.Email})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(id))
}

// LoginFederated signs in with an ID token from a federated provider
// POST /api/v1/auth/login/federated
func (ctrl *AuthController) LoginFederated(c *gin.Context) {
	var req FederatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err, "federated login")
		return
	}

	id, err := ctrl.authService.LoginWithIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err, "login user", nil)
		return
	}

	c.JSON(http.StatusOK, sessionResponse(id))
}

// Logout ends the current session
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c.Request.Context()); err != nil {
		respondError(c, err, "logout user", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out",
	})
}

// Me returns the signed-in user
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, service.ErrNotSignedIn, "get user", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      userView(id),
		"authReady": ctrl.authService.Current().Ready,
	})
}
