package app

import (
	"github.com/gin-gonic/gin"

	apihttp "github.com/voxhealth/voxhealth-backend/internal/http"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, h Handlers, mw Middleware, tracingEnabled bool) *gin.Engine {
	log.Info("Wiring router...")
	return apihttp.NewRouter(apihttp.RouterConfig{
		Log:             log,
		AuthHandler:     h.Auth,
		AuthMiddleware:  mw.Auth,
		UserHandler:     h.User,
		ExerciseHandler: h.Exercise,
		ReportHandler:   h.Report,
		AnalysisHandler: h.Analysis,
		RealtimeHandler: h.Realtime,
		HealthHandler:   h.Health,
		TracingEnabled:  tracingEnabled,
	})
}
