package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
)

const (
	msgUserRegistered = "User registered successfully"
	msgLoginSuccess   = "Login successful"
	msgLogoutSuccess  = "Logged out successfully"
	msgUpgradeSuccess = "User upgraded to admin successfully"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles user registration
func (c *AuthController) Register(ctx *gin.Context) {
	var input services.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	user, err := c.auth.Register(ctx.Request.Context(), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": msgUserRegistered,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var input services.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	result, err := c.auth.Login(ctx.Request.Context(), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": msgLoginSuccess,
		"token":   result.Token,
		"user":    result.User,
	})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.auth.Logout(ctx.Request.Context(), middlewares.GetClaims(ctx)); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLogoutSuccess})
}

func (c *AuthController) UpgradeToAdmin(ctx *gin.Context) {
	var body struct {
		PIN string `json:"pin"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	if err := c.auth.UpgradeToAdmin(ctx.Request.Context(), middlewares.GetUserID(ctx), body.PIN); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUpgradeSuccess})
}
