package services

import (
	"context"
	"testing"

	"stepik-analytics/internal/types"
)

func newCourseFixture(t *testing.T) (*syncFixture, CourseService) {
	t.Helper()
	f := newSyncFixture(t)
	return f, NewCourseService(f.db, testLogger(t), f.courses, f.runs)
}

func TestRegisterAppliesDefaults(t *testing.T) {
	_, svc := newCourseFixture(t)

	course, err := svc.Register(context.Background(), 202590, "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if course.Title != "Course 202590" {
		t.Fatalf("unexpected default title: %q", course.Title)
	}
	if course.URL != "https://stepik.org/course/202590" {
		t.Fatalf("unexpected default url: %q", course.URL)
	}
	if course.SyncStatus != types.SyncStatusNever {
		t.Fatalf("unexpected status: %s", course.SyncStatus)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	_, svc := newCourseFixture(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, 202590, "Original", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := svc.Register(ctx, 202590, "Renamed", "")
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if second.ID != first.ID || second.Title != "Original" {
		t.Fatalf("re-registering must return the existing record, got %+v", second)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single course, got %d", len(all))
	}
}

func TestSeedDefaultsIsRepeatable(t *testing.T) {
	_, svc := newCourseFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.SeedDefaults(ctx); err != nil {
			t.Fatalf("seed defaults: %v", err)
		}
	}
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(defaultStepikIDs) {
		t.Fatalf("expected %d seeded courses, got %d", len(defaultStepikIDs), len(all))
	}
}

func TestRecentRunsUnknownCourse(t *testing.T) {
	_, svc := newCourseFixture(t)

	runs, err := svc.RecentRuns(context.Background(), 999999, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != nil {
		t.Fatalf("expected nil for unknown course, got %+v", runs)
	}
}

func TestRecentRunsAfterSync(t *testing.T) {
	f, svc := newCourseFixture(t)
	f.seedCourse(t, 202590)

	if err := f.svc.SyncCourse(context.Background(), 202590); err != nil {
		t.Fatalf("sync: %v", err)
	}
	runs, err := svc.RecentRuns(context.Background(), 202590, 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != types.SyncRunOk {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
