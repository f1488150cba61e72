package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/types"
)

type SyncRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, runs []*types.SyncRun) ([]*types.SyncRun, error)
	Save(ctx context.Context, tx *gorm.DB, run *types.SyncRun) error
	GetRecentByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, limit int) ([]*types.SyncRun, error)
}

type syncRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyncRunRepo(db *gorm.DB, baseLog *logger.Logger) SyncRunRepo {
	repoLog := baseLog.With("repo", "SyncRunRepo")
	return &syncRunRepo{db: db, log: repoLog}
}

func (r *syncRunRepo) Create(ctx context.Context, tx *gorm.DB, runs []*types.SyncRun) ([]*types.SyncRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(runs) == 0 {
		return []*types.SyncRun{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *syncRunRepo) Save(ctx context.Context, tx *gorm.DB, run *types.SyncRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if run == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(run).Error
}

func (r *syncRunRepo) GetRecentByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, limit int) ([]*types.SyncRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SyncRun
	if courseID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
