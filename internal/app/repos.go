package app

import (
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/exercise"
	"github.com/voxhealth/voxhealth-backend/internal/data/repos/report"
	"github.com/voxhealth/voxhealth-backend/internal/data/repos/user"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

type Repos struct {
	User       user.UserRepo
	UserToken  user.UserTokenRepo
	Completion exercise.CompletionRepo
	Streak     exercise.StreakRepo
	Report     report.ReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       user.NewUserRepo(db, log),
		UserToken:  user.NewUserTokenRepo(db, log),
		Completion: exercise.NewCompletionRepo(db, log),
		Streak:     exercise.NewStreakRepo(db, log),
		Report:     report.NewReportRepo(db, log),
	}
}
