package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxhealth/voxhealth-backend/internal/http/response"
	"github.com/voxhealth/voxhealth-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	u, err := uh.userService.GetCurrentUser(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, u)
}

func (uh *UserHandler) UpdateName(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := uh.userService.UpdateName(c.Request.Context(), req.FirstName, req.LastName)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, u)
}
