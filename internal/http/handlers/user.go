package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyquiz-backend/internal/http/response"
	"github.com/yungbote/studyquiz-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/me
// body: { "name": "..." }
func (uh *UserHandler) UpdateName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	me, err := uh.userService.UpdateName(dbcOf(c), req.Name)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
