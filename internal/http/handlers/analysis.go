package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxhealth/voxhealth-backend/internal/http/response"
	"github.com/voxhealth/voxhealth-backend/internal/services"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (ah *AnalysisHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_audio", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_audio", err)
		return
	}
	defer file.Close()

	result, err := ah.analysisService.Analyze(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ah *AnalysisHandler) ListRuns(c *gin.Context) {
	runs, err := ah.analysisService.ListRuns(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}
