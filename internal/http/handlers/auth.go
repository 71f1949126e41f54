package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	sess, err := ah.authService.RegisterUser(dbcOf(c), services.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, sess)
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	sess, err := ah.authService.LoginUser(dbcOf(c), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, sess)
}

// POST /api/refresh
// body (optional): { "refresh_token": "..." }
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	sess, err := ah.authService.RefreshUser(dbcOf(c), req.RefreshToken)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, sess)
}

// POST /api/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(dbcOf(c)); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
