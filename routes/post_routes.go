package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/controllers"
)

func SetupPostRoutes(public, protected *gin.RouterGroup, postController *controllers.PostController) {
	public.GET("/posts/:id", postController.GetPost)

	posts := protected.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
		posts.DELETE("/:id", postController.DeletePost)
	}
}
