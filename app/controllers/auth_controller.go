package controllers

import (
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/login.
func (a *AuthController) Login(c *ctx.Context) {
	var body loginRequest
	if !c.BindJSON(&body) {
		return
	}

	token, user, err := a.service.Login(c.Context(), body.Password)
	if err != nil {
		fail(c, err, "")
		return
	}

	c.Success(response.Fields{"token": token, "user": user})
}

// ChangePassword handles PUT /api/user/password.
func (a *AuthController) ChangePassword(c *ctx.Context) {
	var body changePasswordRequest
	if !c.BindJSON(&body) {
		return
	}

	if err := a.service.ChangePassword(c.Context(), body.CurrentPassword, body.NewPassword); err != nil {
		fail(c, err, "")
		return
	}

	c.Success(response.Fields{"message": "Password updated successfully"})
}
