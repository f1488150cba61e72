package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"stepik-analytics/internal/repos/testutil"
	"stepik-analytics/internal/types"
)

func TestCourseRepoCreateAndGetByStepikIDs(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(testutil.DB(t), testutil.Logger(t))

	now := time.Now().UTC()
	courses := []*types.Course{
		{ID: uuid.New(), StepikID: 202590, Title: "Course A", URL: "https://stepik.org/course/202590", AddedAt: now, SyncStatus: types.SyncStatusNever},
		{ID: uuid.New(), StepikID: 210038, Title: "Course B", URL: "https://stepik.org/course/210038", AddedAt: now.Add(time.Second), SyncStatus: types.SyncStatusNever},
	}
	if _, err := repo.Create(ctx, tx, courses); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByStepikIDs(ctx, tx, []int64{202590})
	if err != nil {
		t.Fatalf("get by stepik ids: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Course A" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCourseRepoDuplicateStepikIDRejected(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(testutil.DB(t), testutil.Logger(t))

	testutil.SeedCourse(t, ctx, tx, 202590)
	_, err := repo.Create(ctx, tx, []*types.Course{{
		ID:         uuid.New(),
		StepikID:   202590,
		Title:      "Duplicate",
		URL:        "https://stepik.org/course/202590",
		AddedAt:    time.Now().UTC(),
		SyncStatus: types.SyncStatusNever,
	}})
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestCourseRepoGetAllOrderedByAddedAt(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(testutil.DB(t), testutil.Logger(t))

	base := time.Now().UTC()
	later := &types.Course{ID: uuid.New(), StepikID: 2, Title: "Later", URL: "u", AddedAt: base.Add(time.Hour), SyncStatus: types.SyncStatusNever}
	earlier := &types.Course{ID: uuid.New(), StepikID: 1, Title: "Earlier", URL: "u", AddedAt: base, SyncStatus: types.SyncStatusNever}
	if _, err := repo.Create(ctx, tx, []*types.Course{later, earlier}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetAll(ctx, tx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Earlier" {
		t.Fatalf("expected added_at ordering, got %+v", got)
	}
}

func TestCourseRepoSaveUpdatesSyncState(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(testutil.DB(t), testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx, 202590)
	now := time.Now().UTC()
	course.SyncStatus = types.SyncStatusOk
	course.LastSyncAt = &now
	course.LastSyncedEventAt = &now
	if err := repo.Save(ctx, tx, course); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{course.ID})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 1 || got[0].SyncStatus != types.SyncStatusOk || got[0].LastSyncAt == nil {
		t.Fatalf("sync state not persisted: %+v", got)
	}
}
