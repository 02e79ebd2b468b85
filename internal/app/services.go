package app

import (
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/services"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

type Services struct {
	Auth     services.AuthService
	Avatar   services.AvatarService
	User     services.UserService
	Exercise services.ExerciseService
	Report   services.ReportService
	Analysis services.AnalysisService
	Notifier services.Notifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, hub *sse.Hub) Services {
	log.Info("Wiring services...")
	var s Services

	s.Notifier = services.NewNotifier(log, hub, clients.EventBus)

	if clients.Bucket != nil {
		avatar, err := services.NewAvatarService(db, log, repos.User, clients.Bucket)
		if err != nil {
			log.Warn("Avatar service unavailable (users register without avatars)", "error", err)
		} else {
			s.Avatar = avatar
		}
	}

	s.Auth = services.NewAuthService(
		db, log, repos.User, repos.UserToken, s.Avatar,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	s.User = services.NewUserService(db, log, repos.User, s.Avatar, s.Notifier)
	s.Exercise = services.NewExerciseService(db, log, repos.Completion, repos.Streak, s.Notifier)

	if clients.Pinner != nil && clients.Ledger != nil {
		s.Report = services.NewReportService(db, log, repos.Report, clients.Pinner, clients.Ledger, s.Notifier)
	} else {
		log.Warn("Report service disabled (pinner or ledger missing)")
	}

	if clients.VoiceAPI != nil && s.Report != nil {
		s.Analysis = services.NewAnalysisService(db, log, clients.VoiceAPI, clients.Bucket, s.Report, s.Notifier)
	} else if clients.VoiceAPI != nil {
		log.Warn("Analysis service disabled (report service missing)")
	}

	return s
}
