package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/types"
)

type DailyMetricRepo interface {
	// GetByCourseAndDate returns nil without error when no row exists yet.
	GetByCourseAndDate(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, date types.Date) (*types.DailyMetric, error)
	GetByCoursesInRange(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, start, end types.Date) ([]*types.DailyMetric, error)
	// Upsert creates the row when it has no identity yet, otherwise saves it.
	// Uniqueness on (course, date) is enforced by the schema.
	Upsert(ctx context.Context, tx *gorm.DB, metric *types.DailyMetric) error
}

type dailyMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyMetricRepo(db *gorm.DB, baseLog *logger.Logger) DailyMetricRepo {
	repoLog := baseLog.With("repo", "DailyMetricRepo")
	return &dailyMetricRepo{db: db, log: repoLog}
}

func (r *dailyMetricRepo) GetByCourseAndDate(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, date types.Date) (*types.DailyMetric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.DailyMetric
	err := transaction.WithContext(ctx).
		Where("course_id = ? AND date = ?", courseID, date).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dailyMetricRepo) GetByCoursesInRange(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, start, end types.Date) ([]*types.DailyMetric, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyMetric
	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id IN ? AND date >= ? AND date <= ?", courseIDs, start, end).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dailyMetricRepo) Upsert(ctx context.Context, tx *gorm.DB, metric *types.DailyMetric) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if metric == nil {
		return nil
	}
	if metric.ID == uuid.Nil {
		metric.ID = uuid.New()
		return transaction.WithContext(ctx).Create(metric).Error
	}
	return transaction.WithContext(ctx).Save(metric).Error
}
