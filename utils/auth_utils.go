package utils

import (
	"github.com/gin-gonic/gin"
)

type contextKey string

const TokenContextKey contextKey = "bearer_token"

// GetToken returns the bearer token stored by the auth middleware.
func GetToken(c *gin.Context) string {
	return c.GetString(string(TokenContextKey))
}

func SetToken(c *gin.Context, token string) {
	c.Set(string(TokenContextKey), token)
}
