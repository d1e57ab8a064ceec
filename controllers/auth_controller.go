package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type AuthController struct {
	Users *services.UserService
	Auth  *services.AuthService
}

func NewAuthController(users *services.UserService, auth *services.AuthService) *AuthController {
	return &AuthController{Users: users, Auth: auth}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := ac.Users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) Token(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}
	pair, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var input RefreshInput
	if !bindJSON(c, &input) {
		return
	}
	access, err := ac.Auth.Refresh(c.Request.Context(), input.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}
