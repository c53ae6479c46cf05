package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/services"
	"github.com/mini-social/api-go/utils"
)

type InteractionController struct {
	Posts *services.PostService
}

func NewInteractionController(posts *services.PostService) *InteractionController {
	return &InteractionController{Posts: posts}
}

// LikePost godoc
// @Summary Like a post
// @Description Liking a post twice is rejected with 409
// @Tags interactions
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/likes [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
	if err := ic.Posts.LikePost(c.Request.Context(), utils.GetToken(c), postIDParam(c)); err != nil {
		respondError(c, "like_post", err)
		return
	}

	observeOK("like_post")
	c.JSON(http.StatusOK, gin.H{"liked": true})
}

// GetPostLikes godoc
// @Summary List the likes of a post
// @Tags interactions
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} LikesResponse
// @Router /posts/{id}/likes [get]
func (ic *InteractionController) GetPostLikes(c *gin.Context) {
	postID := postIDParam(c)
	likes, err := ic.Posts.ListLikes(c.Request.Context(), postID)
	if err != nil {
		respondError(c, "list_likes", err)
		return
	}

	observeOK("list_likes")
	c.JSON(http.StatusOK, LikesResponse{PostID: postID, Count: len(likes), Likes: likes})
}
