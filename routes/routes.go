package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/controllers"
	"github.com/mini-social/api-go/events"
	"github.com/mini-social/api-go/middleware"
	"github.com/mini-social/api-go/monitoring"
	"github.com/mini-social/api-go/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Auth  *services.AuthService
	Posts *services.PostService
	// Hub is optional; without it the activity stream route is not mounted.
	Hub *events.Hub
	// Ping reports whether the record store is reachable.
	Ping func(ctx context.Context) error
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.Use(monitoring.GinMiddleware())

	authController := controllers.NewAuthController(deps.Auth)
	postController := controllers.NewPostController(deps.Posts)
	interactionController := controllers.NewInteractionController(deps.Posts)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", healthHandler(deps.Ping))

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		if deps.Hub != nil {
			public.GET("/activity/ws", gin.WrapF(deps.Hub.ServeWS))
		}
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", authController.GetProfile)
		protected.DELETE("/profile", authController.DeleteProfile)
	}

	SetupPostRoutes(public, protected, postController)
	SetupInteractionRoutes(public, protected, interactionController)
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
