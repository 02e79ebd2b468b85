package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/voxhealth/voxhealth-backend/internal/http/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (hh *HealthHandler) Check(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}
