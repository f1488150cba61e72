package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/types"
)

type RawAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.RawAttempt) ([]*types.RawAttempt, error)
	ExistingAttemptIDs(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (map[int64]struct{}, error)
	// CountDistinctUsers counts distinct users with attempts in the half-open
	// UTC interval [startUTC, endUTC).
	CountDistinctUsers(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, startUTC, endUTC time.Time) (int, error)
}

type rawAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawAttemptRepo(db *gorm.DB, baseLog *logger.Logger) RawAttemptRepo {
	repoLog := baseLog.With("repo", "RawAttemptRepo")
	return &rawAttemptRepo{db: db, log: repoLog}
}

func (r *rawAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.RawAttempt) ([]*types.RawAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*types.RawAttempt{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *rawAttemptRepo) ExistingAttemptIDs(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (map[int64]struct{}, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []int64
	if err := transaction.WithContext(ctx).
		Model(&types.RawAttempt{}).
		Where("course_id = ?", courseID).
		Pluck("attempt_id", &ids).Error; err != nil {
		return nil, err
	}

	existing := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		existing[id] = struct{}{}
	}
	return existing, nil
}

func (r *rawAttemptRepo) CountDistinctUsers(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, startUTC, endUTC time.Time) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RawAttempt{}).
		Where("course_id = ? AND created_at >= ? AND created_at < ?", courseID, startUTC, endUTC).
		Distinct("user_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
