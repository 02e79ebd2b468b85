package exercise

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// CompletionRepo is the append-only completed-exercise log.
type CompletionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, completions []*domain.ExerciseCompletion) ([]*domain.ExerciseCompletion, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.ExerciseCompletion, error)
	// ListByUserBetween returns completions with fromMillis <= completed_at < toMillis.
	ListByUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMillis, toMillis int64) ([]*domain.ExerciseCompletion, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type completionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletionRepo(db *gorm.DB, baseLog *logger.Logger) CompletionRepo {
	return &completionRepo{db: db, log: baseLog.With("repo", "CompletionRepo")}
}

func (r *completionRepo) Create(ctx context.Context, tx *gorm.DB, completions []*domain.ExerciseCompletion) ([]*domain.ExerciseCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(completions) == 0 {
		return []*domain.ExerciseCompletion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *completionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.ExerciseCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.ExerciseCompletion
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionRepo) ListByUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMillis, toMillis int64) ([]*domain.ExerciseCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.ExerciseCompletion
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, fromMillis, toMillis).
		Order("completed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *completionRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.ExerciseCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
