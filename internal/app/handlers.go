package app

import (
	"github.com/voxhealth/voxhealth-backend/internal/http/handlers"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Exercise *handlers.ExerciseHandler
	Report   *handlers.ReportHandler
	Analysis *handlers.AnalysisHandler
	Realtime *handlers.RealtimeHandler
	Health   *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *sse.Hub) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Auth:     handlers.NewAuthHandler(s.Auth),
		User:     handlers.NewUserHandler(s.User),
		Exercise: handlers.NewExerciseHandler(s.Exercise),
		Realtime: handlers.NewRealtimeHandler(log, hub),
		Health:   handlers.NewHealthHandler(),
	}
	if s.Report != nil {
		h.Report = handlers.NewReportHandler(s.Report)
	}
	if s.Analysis != nil {
		h.Analysis = handlers.NewAnalysisHandler(s.Analysis)
	}
	return h
}
