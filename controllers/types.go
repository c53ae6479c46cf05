package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mini-social/api-go/models"
)

type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type TokenResponse struct {
	TokenType string `json:"token_type"`
	Token     string `json:"token"`
}

type LikesResponse struct {
	PostID uuid.UUID     `json:"post_id"`
	Count  int           `json:"count"`
	Likes  []models.Like `json:"likes"`
}

// postIDParam parses the :id path parameter. A malformed id becomes uuid.Nil,
// which matches no post, so callers get the usual not-found outcome.
func postIDParam(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func newTokenResponse(token string) TokenResponse {
	return TokenResponse{TokenType: "Bearer", Token: token}
}
