package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/config"
	"github.com/mykitchen/kitchen/internal/app/controller"
	"github.com/mykitchen/kitchen/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	recipeController    *controller.RecipeController
	stagingController   *controller.StagingController
	cartController      *controller.CartController
	analyticsController *controller.AnalyticsController
	uploadController    *controller.UploadController
	wsController        *controller.WebSocketController
	authMiddleware      *middleware.AuthMiddleware
	sessions            middleware.SessionSource
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	recipeController *controller.RecipeController,
	stagingController *controller.StagingController,
	cartController *controller.CartController,
	analyticsController *controller.AnalyticsController,
	uploadController *controller.UploadController,
	wsController *controller.WebSocketController,
	sessions middleware.SessionSource,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		recipeController:    recipeController,
		stagingController:   stagingController,
		cartController:      cartController,
		analyticsController: analyticsController,
		uploadController:    uploadController,
		wsController:        wsController,
		authMiddleware:      middleware.NewAuthMiddleware(sessions),
		sessions:            sessions,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "MyKitchen API is running",
			"authReady": r.sessions.Current().Ready,
		})
	})

	router.GET("/ws", r.authMiddleware.Authenticate(), r.wsController.Stream)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(r.authMiddleware.RequireReady())
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/login/federated", r.authController.LoginFederated)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		// Everything below needs a signed-in session once auth is ready.
		protected := v1.Group("")
		protected.Use(r.authMiddleware.Authenticate())

		recipes := protected.Group("/recipes")
		{
			recipes.GET("", r.recipeController.ListRecipes)
			recipes.POST("", r.recipeController.CreateRecipe)
			recipes.GET("/:id", r.recipeController.GetRecipe)
			recipes.PUT("/:id", r.recipeController.UpdateRecipe)
			recipes.DELETE("/:id", r.recipeController.DeleteRecipe)
		}

		staging := protected.Group("/staging")
		{
			staging.GET("", r.stagingController.GetStaging)
			staging.POST("/focus", r.stagingController.Focus)
			staging.POST("/increment", r.stagingController.Increment)
			staging.POST("/decrement", r.stagingController.Decrement)
			staging.POST("/commit", r.stagingController.Commit)
		}

		cart := protected.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/reconcile", r.cartController.ReconcileCart)
			cart.PUT("/:id", r.cartController.UpdateCartEntry)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.POST("/:id/increment", r.cartController.IncrementCartEntry)
			cart.POST("/:id/decrement", r.cartController.DecrementCartEntry)
		}

		protected.GET("/charts", r.analyticsController.GetCharts)
		protected.POST("/uploads/images", r.uploadController.PresignImage)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
