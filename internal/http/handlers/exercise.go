package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voxhealth/voxhealth-backend/internal/http/response"
	"github.com/voxhealth/voxhealth-backend/internal/services"
	"github.com/voxhealth/voxhealth-backend/internal/streak"
)

type ExerciseHandler struct {
	exerciseService services.ExerciseService
}

func NewExerciseHandler(exerciseService services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

func (eh *ExerciseHandler) Catalog(c *gin.Context) {
	response.RespondOK(c, gin.H{"exercises": eh.exerciseService.Catalog()})
}

func (eh *ExerciseHandler) Complete(c *gin.Context) {
	exerciseID := strings.TrimSpace(c.Param("id"))
	if exerciseID == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_exercise_id", nil)
		return
	}
	result, err := eh.exerciseService.Complete(c.Request.Context(), exerciseID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (eh *ExerciseHandler) Progress(c *gin.Context) {
	progress, err := eh.exerciseService.GetProgress(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, progress)
}

func (eh *ExerciseHandler) History(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = time.Now().UTC().Format(streak.DayFormat)
	}
	completions, err := eh.exerciseService.History(c.Request.Context(), date)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"date": date, "completions": completions})
}
