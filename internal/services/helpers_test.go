package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"stepik-analytics/internal/clients/stepik"
	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/repos"
	"stepik-analytics/internal/types"
)

var dbSeq atomic.Int64

// newTestDB opens a private in-memory database per test. Service methods run
// against the repos' own handle, so transaction rollback isolation is not an
// option here.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&types.Course{}, &types.SyncRun{}, &types.DailyMetric{}, &types.RawAttempt{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeAPI satisfies StepikAPI with swappable per-resource behaviors. Every
// resource defaults to unavailable; tests reassign the funcs they exercise.
type fakeAPI struct {
	attempts     func() (stepik.Result[stepik.Attempt], error)
	enrollments  func() (stepik.Result[stepik.Enrollment], error)
	certificates func() (stepik.Result[stepik.Certificate], error)
	reviews      func() (stepik.Result[stepik.Review], error)
	ratings      func() (stepik.Result[stepik.Rating], error)

	lastFrom time.Time
	lastTo   time.Time
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		attempts: func() (stepik.Result[stepik.Attempt], error) {
			return stepik.Unavailable[stepik.Attempt]("not configured"), nil
		},
		enrollments: func() (stepik.Result[stepik.Enrollment], error) {
			return stepik.Unavailable[stepik.Enrollment]("not configured"), nil
		},
		certificates: func() (stepik.Result[stepik.Certificate], error) {
			return stepik.Unavailable[stepik.Certificate]("not configured"), nil
		},
		reviews: func() (stepik.Result[stepik.Review], error) {
			return stepik.Unavailable[stepik.Review]("not configured"), nil
		},
		ratings: func() (stepik.Result[stepik.Rating], error) {
			return stepik.Unavailable[stepik.Rating]("not configured"), nil
		},
	}
}

func (f *fakeAPI) Attempts(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Attempt], error) {
	f.lastFrom, f.lastTo = from, to
	return f.attempts()
}

func (f *fakeAPI) Enrollments(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Enrollment], error) {
	return f.enrollments()
}

func (f *fakeAPI) Certificates(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Certificate], error) {
	return f.certificates()
}

func (f *fakeAPI) Reviews(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Review], error) {
	return f.reviews()
}

func (f *fakeAPI) Ratings(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Rating], error) {
	return f.ratings()
}

type syncFixture struct {
	db       *gorm.DB
	courses  repos.CourseRepo
	runs     repos.SyncRunRepo
	metrics  repos.DailyMetricRepo
	attempts repos.RawAttemptRepo
	api      *fakeAPI
	svc      SyncService
	loc      *time.Location
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	db := newTestDB(t)
	log := testLogger(t)
	loc := time.FixedZone("UTC+3", 3*60*60)

	f := &syncFixture{
		db:       db,
		courses:  repos.NewCourseRepo(db, log),
		runs:     repos.NewSyncRunRepo(db, log),
		metrics:  repos.NewDailyMetricRepo(db, log),
		attempts: repos.NewRawAttemptRepo(db, log),
		api:      newFakeAPI(),
		loc:      loc,
	}
	f.svc = NewSyncService(db, log, f.courses, f.runs, f.metrics, f.attempts, f.api, func() Settings {
		return Settings{BackfillDays: 30, Location: loc}
	})
	return f
}

func (f *syncFixture) seedCourse(t *testing.T, stepikID int64) *types.Course {
	t.Helper()
	course := &types.Course{
		ID:         uuid.New(),
		StepikID:   stepikID,
		Title:      fmt.Sprintf("Course %d", stepikID),
		URL:        fmt.Sprintf("https://stepik.org/course/%d", stepikID),
		AddedAt:    time.Now().UTC(),
		SyncStatus: types.SyncStatusNever,
	}
	if _, err := f.courses.Create(context.Background(), nil, []*types.Course{course}); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func (f *syncFixture) reloadCourse(t *testing.T, id uuid.UUID) *types.Course {
	t.Helper()
	got, err := f.courses.GetByIDs(context.Background(), nil, []uuid.UUID{id})
	if err != nil || len(got) != 1 {
		t.Fatalf("reload course: %v (%d rows)", err, len(got))
	}
	return got[0]
}

func (f *syncFixture) metric(t *testing.T, courseID uuid.UUID, date types.Date) *types.DailyMetric {
	t.Helper()
	m, err := f.metrics.GetByCourseAndDate(context.Background(), nil, courseID, date)
	if err != nil {
		t.Fatalf("load metric: %v", err)
	}
	return m
}

func (f *syncFixture) lastRun(t *testing.T, courseID uuid.UUID) *types.SyncRun {
	t.Helper()
	runs, err := f.runs.GetRecentByCourse(context.Background(), nil, courseID, 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("load last run: %v (%d rows)", err, len(runs))
	}
	return runs[0]
}
