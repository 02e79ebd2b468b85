package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/voxhealth/voxhealth-backend/internal/http/handlers"
	httpMW "github.com/voxhealth/voxhealth-backend/internal/http/middleware"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler     *httpH.UserHandler
	ExerciseHandler *httpH.ExerciseHandler
	ReportHandler   *httpH.ReportHandler
	AnalysisHandler *httpH.AnalysisHandler
	RealtimeHandler *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler

	TracingEnabled bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("voxhealth"))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.Check)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateName)
		}

		// Exercises + streak
		if cfg.ExerciseHandler != nil {
			protected.GET("/exercises", cfg.ExerciseHandler.Catalog)
			protected.POST("/exercises/:id/complete", cfg.ExerciseHandler.Complete)
			protected.GET("/exercises/progress", cfg.ExerciseHandler.Progress)
			protected.GET("/exercises/history", cfg.ExerciseHandler.History)
		}

		// Reports
		if cfg.ReportHandler != nil {
			protected.POST("/reports", cfg.ReportHandler.Register)
			protected.POST("/reports/:id/verify", cfg.ReportHandler.Verify)
			protected.GET("/reports", cfg.ReportHandler.List)
		}

		// Analysis proxy
		if cfg.AnalysisHandler != nil {
			protected.POST("/analysis", cfg.AnalysisHandler.Analyze)
			protected.GET("/analysis", cfg.AnalysisHandler.ListRuns)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
