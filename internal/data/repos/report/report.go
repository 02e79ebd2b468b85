package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

type ReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reports []*domain.Report) ([]*domain.Report, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Report, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Report, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return &reportRepo{db: db, log: baseLog.With("repo", "ReportRepo")}
}

func (r *reportRepo) Create(ctx context.Context, tx *gorm.DB, reports []*domain.Report) ([]*domain.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reports) == 0 {
		return []*domain.Report{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.Report
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Report
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
