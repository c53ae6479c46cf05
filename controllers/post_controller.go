package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/services"
	"github.com/mini-social/api-go/utils"
)

type PostController struct {
	Posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{Posts: posts}
}

// CreatePost godoc
// @Summary Create a new post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post creation request"
// @Success 201 {object} models.Post
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "create_post", err)
		return
	}

	post, err := pc.Posts.CreatePost(c.Request.Context(), utils.GetToken(c), req.Content)
	if err != nil {
		respondError(c, "create_post", err)
		return
	}

	observeOK("create_post")
	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Get a post with its like count
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Router /posts/{id} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.Posts.GetPost(c.Request.Context(), postIDParam(c))
	if err != nil {
		respondError(c, "get_post", err)
		return
	}

	observeOK("get_post")
	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post owned by the caller
// @Description Deletes the post and its likes
// @Tags posts
// @Param id path string true "Post ID"
// @Success 204
// @Router /posts/{id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	if err := pc.Posts.DeletePost(c.Request.Context(), utils.GetToken(c), postIDParam(c)); err != nil {
		respondError(c, "delete_post", err)
		return
	}

	observeOK("delete_post")
	c.Status(http.StatusNoContent)
}
