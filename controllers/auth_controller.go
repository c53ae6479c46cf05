package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/services"
	"github.com/mini-social/api-go/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Register creates an account and returns a bearer token for it. Duplicate
// usernames and storage failures share the "registration failed" message.
func (ac *AuthController) Register(c *gin.Context) {
	var input CredentialsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, "register", err)
		return
	}

	token, err := ac.Auth.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		switch services.KindOf(err) {
		case services.KindConflict, services.KindStorageUnavailable:
			respondErrorMessage(c, "register", err, "registration failed")
		default:
			respondError(c, "register", err)
		}
		return
	}

	observeOK("register")
	c.JSON(http.StatusCreated, newTokenResponse(token))
}

func (ac *AuthController) Login(c *gin.Context) {
	var input CredentialsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, "login", err)
		return
	}

	token, err := ac.Auth.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, "login", err)
		return
	}

	observeOK("login")
	c.JSON(http.StatusOK, newTokenResponse(token))
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user, err := ac.Auth.Profile(c.Request.Context(), utils.GetToken(c))
	if err != nil {
		respondError(c, "get_profile", err)
		return
	}

	observeOK("get_profile")
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) DeleteProfile(c *gin.Context) {
	if err := ac.Auth.DeleteAccount(c.Request.Context(), utils.GetToken(c)); err != nil {
		respondError(c, "delete_account", err)
		return
	}

	observeOK("delete_account")
	c.Status(http.StatusNoContent)
}
