package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"stepik-analytics/internal/repos/testutil"
	"stepik-analytics/internal/types"
)

func rawAttempt(courseID uuid.UUID, attemptID, userID int64, createdAt time.Time) *types.RawAttempt {
	return &types.RawAttempt{
		ID:        uuid.New(),
		CourseID:  courseID,
		AttemptID: attemptID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

func TestRawAttemptRepoDuplicateAttemptIDRejected(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewRawAttemptRepo(testutil.DB(t), testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx, 202590)
	now := time.Now().UTC()
	if _, err := repo.Create(ctx, tx, []*types.RawAttempt{rawAttempt(course.ID, 100, 1, now)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, []*types.RawAttempt{rawAttempt(course.ID, 100, 2, now)}); err == nil {
		t.Fatal("expected unique constraint violation on (course, attempt)")
	}
}

func TestRawAttemptRepoSameAttemptIDAcrossCourses(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewRawAttemptRepo(testutil.DB(t), testutil.Logger(t))

	a := testutil.SeedCourse(t, ctx, tx, 202590)
	b := testutil.SeedCourse(t, ctx, tx, 210038)
	now := time.Now().UTC()
	if _, err := repo.Create(ctx, tx, []*types.RawAttempt{rawAttempt(a.ID, 100, 1, now)}); err != nil {
		t.Fatalf("create for course a: %v", err)
	}
	if _, err := repo.Create(ctx, tx, []*types.RawAttempt{rawAttempt(b.ID, 100, 1, now)}); err != nil {
		t.Fatalf("same attempt id must be allowed for another course: %v", err)
	}
}

func TestRawAttemptRepoExistingAttemptIDs(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewRawAttemptRepo(testutil.DB(t), testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx, 202590)
	other := testutil.SeedCourse(t, ctx, tx, 210038)
	now := time.Now().UTC()
	if _, err := repo.Create(ctx, tx, []*types.RawAttempt{
		rawAttempt(course.ID, 100, 1, now),
		rawAttempt(course.ID, 101, 2, now),
		rawAttempt(other.ID, 102, 1, now),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	seen, err := repo.ExistingAttemptIDs(ctx, tx, course.ID)
	if err != nil {
		t.Fatalf("existing attempt ids: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(seen))
	}
	if _, ok := seen[100]; !ok {
		t.Fatal("missing attempt 100")
	}
	if _, ok := seen[102]; ok {
		t.Fatal("attempt from another course leaked in")
	}
}

func TestRawAttemptRepoCountDistinctUsersHalfOpenWindow(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewRawAttemptRepo(testutil.DB(t), testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx, 202590)
	start := time.Date(2024, time.June, 14, 22, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	// Users 10 and 11 fall inside [start, end); 12 lands exactly on the
	// exclusive upper bound and 13 just before the window.
	if _, err := repo.Create(ctx, tx, []*types.RawAttempt{
		rawAttempt(course.ID, 1, 10, start),
		rawAttempt(course.ID, 2, 10, start.Add(time.Hour)),
		rawAttempt(course.ID, 3, 11, end.Add(-time.Second)),
		rawAttempt(course.ID, 4, 12, end),
		rawAttempt(course.ID, 5, 13, start.Add(-time.Second)),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := repo.CountDistinctUsers(ctx, tx, course.ID, start, end)
	if err != nil {
		t.Fatalf("count distinct users: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct users in [start, end), got %d", count)
	}
}
