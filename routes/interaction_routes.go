package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/controllers"
)

func SetupInteractionRoutes(public, protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	public.GET("/posts/:id/likes", interactionController.GetPostLikes)

	posts := protected.Group("/posts")
	{
		posts.POST("/:id/likes", interactionController.LikePost)
	}
}
