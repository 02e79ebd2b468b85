package exercise

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// StreakRepo persists the per-user streak row. Get returns a zero-value
// row (with the user id set) when the user has no streak yet, so callers
// never special-case first completion.
type StreakRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.ExerciseStreak, error)
	Upsert(ctx context.Context, tx *gorm.DB, streak *domain.ExerciseStreak) error
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return &streakRepo{db: db, log: baseLog.With("repo", "StreakRepo")}
}

func (r *streakRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.ExerciseStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.ExerciseStreak
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.ExerciseStreak{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *streakRepo) Upsert(ctx context.Context, tx *gorm.DB, streak *domain.ExerciseStreak) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_streak",
				"longest_streak",
				"last_completed_date",
				"history",
				"updated_at",
			}),
		}).
		Create(streak).Error
}
