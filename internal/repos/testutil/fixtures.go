package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/types"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, stepikID int64) *types.Course {
	tb.Helper()
	now := time.Now().UTC()
	course := &types.Course{
		ID:         uuid.New(),
		StepikID:   stepikID,
		Title:      "Test course",
		URL:        "https://stepik.org/course/1",
		AddedAt:    now,
		SyncStatus: types.SyncStatusNever,
	}
	if err := tx.WithContext(ctx).Create(course).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return course
}
