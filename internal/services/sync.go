package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/clients/stepik"
	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/repos"
	"stepik-analytics/internal/types"
	"stepik-analytics/internal/tzdate"
)

// Settings is the read-only configuration snapshot consumed at sync start.
type Settings struct {
	BackfillDays int
	Location     *time.Location
}

// SettingsSource yields a fresh snapshot per run.
type SettingsSource func() Settings

// StepikAPI is the paged upstream client as the orchestrator sees it.
type StepikAPI interface {
	Attempts(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Attempt], error)
	Enrollments(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Enrollment], error)
	Certificates(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Certificate], error)
	Reviews(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Review], error)
	Ratings(ctx context.Context, courseID int64, from, to time.Time) (stepik.Result[stepik.Rating], error)
}

type SyncService interface {
	// SyncAll syncs every registered course sequentially; one course's
	// failure does not abort the others.
	SyncAll(ctx context.Context) error
	SyncCourse(ctx context.Context, stepikID int64) error
}

type syncService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	runRepo     repos.SyncRunRepo
	metricRepo  repos.DailyMetricRepo
	attemptRepo repos.RawAttemptRepo
	api         StepikAPI
	settings    SettingsSource
}

func NewSyncService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	runRepo repos.SyncRunRepo,
	metricRepo repos.DailyMetricRepo,
	attemptRepo repos.RawAttemptRepo,
	api StepikAPI,
	settings SettingsSource,
) SyncService {
	serviceLog := baseLog.With("service", "SyncService")
	return &syncService{
		db:          db,
		log:         serviceLog,
		courseRepo:  courseRepo,
		runRepo:     runRepo,
		metricRepo:  metricRepo,
		attemptRepo: attemptRepo,
		api:         api,
		settings:    settings,
	}
}

func (s *syncService) SyncAll(ctx context.Context) error {
	courses, err := s.courseRepo.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	for _, course := range courses {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.SyncCourse(ctx, course.StepikID); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.log.Error("course sync failed, continuing with remaining courses",
				"stepik_id", course.StepikID, "error", err)
		}
	}
	return nil
}

func (s *syncService) SyncCourse(ctx context.Context, stepikID int64) error {
	courses, err := s.courseRepo.GetByStepikIDs(ctx, nil, []int64{stepikID})
	if err != nil {
		return fmt.Errorf("load course %d: %w", stepikID, err)
	}
	if len(courses) == 0 {
		s.log.Warn("course not found for sync", "stepik_id", stepikID)
		return nil
	}
	course := courses[0]

	run := &types.SyncRun{
		ID:        uuid.New(),
		CourseID:  course.ID,
		StartedAt: time.Now().UTC(),
		Status:    types.SyncRunOk,
	}
	if _, err := s.runRepo.Create(ctx, nil, []*types.SyncRun{run}); err != nil {
		return fmt.Errorf("open sync run: %w", err)
	}

	course.SyncStatus = types.SyncStatusSyncing
	course.LastError = nil
	if err := s.courseRepo.Save(ctx, nil, course); err != nil {
		return fmt.Errorf("mark course syncing: %w", err)
	}

	syncErr := s.syncResources(ctx, course, run)
	switch {
	case syncErr == nil:
		// handled in syncResources
	case errors.Is(syncErr, context.Canceled):
		cancelled := "Sync cancelled"
		course.SyncStatus = types.SyncStatusError
		course.LastError = &cancelled
		run.Status = types.SyncRunCancelled
		s.log.Warn("sync cancelled", "stepik_id", stepikID)
	default:
		msg := syncErr.Error()
		course.SyncStatus = types.SyncStatusError
		course.LastError = &msg
		run.Status = types.SyncRunError
		run.ErrorText = &msg
		s.log.Error("sync failed", "stepik_id", stepikID, "error", syncErr)
	}

	if run.FinishedAt == nil {
		finished := time.Now().UTC()
		run.FinishedAt = &finished
	}

	// Persist unconditionally: partial progress already upserted stays, and
	// the run must be finalized even after cancellation.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.courseRepo.Save(persistCtx, nil, course); err != nil {
		s.log.Error("failed to persist course after sync", "stepik_id", stepikID, "error", err)
	}
	if err := s.runRepo.Save(persistCtx, nil, run); err != nil {
		s.log.Error("failed to persist sync run", "stepik_id", stepikID, "error", err)
	}
	return syncErr
}

func (s *syncService) syncResources(ctx context.Context, course *types.Course, run *types.SyncRun) error {
	set := s.settings()
	loc := set.Location
	now := time.Now().UTC()

	var fromDate types.Date
	if course.LastSyncedEventAt != nil {
		fromDate = tzdate.ToLocalDate(*course.LastSyncedEventAt, loc)
	} else {
		fromDate = types.DateOf(now.AddDate(0, 0, -set.BackfillDays))
	}
	from, _ := tzdate.UTCRange(fromDate, loc)
	to := now

	s.log.Info("syncing course",
		"stepik_id", course.StepikID,
		"from", from.Format(time.RFC3339),
		"to", to.Format(time.RFC3339),
	)

	attempts, err := s.api.Attempts(ctx, course.StepikID, from, to)
	if err != nil {
		return fmt.Errorf("attempts: %w", err)
	}
	if attempts.Available() {
		newAttempts, err := s.upsertAttempts(ctx, course, attempts.Items())
		if err != nil {
			return fmt.Errorf("upsert attempts: %w", err)
		}
		if err := s.upsertAttemptAggregates(ctx, course, newAttempts, loc); err != nil {
			return fmt.Errorf("upsert attempt aggregates: %w", err)
		}
	} else {
		s.log.Warn("attempts unavailable", "reason", attempts.Reason())
	}

	enrollments, err := s.api.Enrollments(ctx, course.StepikID, from, to)
	if err != nil {
		return fmt.Errorf("enrollments: %w", err)
	}
	if enrollments.Available() {
		stamps := make([]time.Time, 0, len(enrollments.Items()))
		for _, e := range enrollments.Items() {
			stamps = append(stamps, e.CreatedAt)
		}
		err := s.upsertDailyCounts(ctx, course, stamps, loc, func(m *types.DailyMetric, count int) {
			m.NewStudents = count
		})
		if err != nil {
			return fmt.Errorf("upsert enrollments: %w", err)
		}
	} else {
		s.log.Warn("enrollments unavailable", "reason", enrollments.Reason())
	}

	certificates, err := s.api.Certificates(ctx, course.StepikID, from, to)
	if err != nil {
		return fmt.Errorf("certificates: %w", err)
	}
	if certificates.Available() {
		stamps := make([]time.Time, 0, len(certificates.Items()))
		for _, c := range certificates.Items() {
			stamps = append(stamps, c.IssuedAt)
		}
		err := s.upsertDailyCounts(ctx, course, stamps, loc, func(m *types.DailyMetric, count int) {
			m.CertificatesIssued = count
		})
		if err != nil {
			return fmt.Errorf("upsert certificates: %w", err)
		}
	} else {
		s.log.Warn("certificates unavailable", "reason", certificates.Reason())
	}

	reviews, err := s.api.Reviews(ctx, course.StepikID, from, to)
	if err != nil {
		return fmt.Errorf("reviews: %w", err)
	}
	if reviews.Available() {
		if err := s.upsertReviews(ctx, course, reviews.Items(), loc); err != nil {
			return fmt.Errorf("upsert reviews: %w", err)
		}
	} else {
		s.log.Warn("reviews unavailable", "reason", reviews.Reason())
	}

	ratings, err := s.api.Ratings(ctx, course.StepikID, from, to)
	if err != nil {
		return fmt.Errorf("ratings: %w", err)
	}
	if ratings.Available() {
		if err := s.upsertRatings(ctx, course, ratings.Items(), loc); err != nil {
			return fmt.Errorf("upsert ratings: %w", err)
		}
	} else {
		s.log.Warn("ratings unavailable", "reason", ratings.Reason())
	}

	lastSync := time.Now().UTC()
	course.LastSyncedEventAt = &to
	course.LastSyncAt = &lastSync
	course.SyncStatus = types.SyncStatusOk
	finished := lastSync
	run.FinishedAt = &finished
	run.Status = types.SyncRunOk
	return nil
}

// upsertAttempts stores attempts not seen before for this course, keyed by
// the external attempt id, and returns only the newly stored rows.
func (s *syncService) upsertAttempts(ctx context.Context, course *types.Course, items []stepik.Attempt) ([]*types.RawAttempt, error) {
	if len(items) == 0 {
		return nil, nil
	}

	existing, err := s.attemptRepo.ExistingAttemptIDs(ctx, nil, course.ID)
	if err != nil {
		return nil, err
	}

	var fresh []*types.RawAttempt
	for _, item := range items {
		if _, known := existing[item.AttemptID]; known {
			continue
		}
		existing[item.AttemptID] = struct{}{}
		fresh = append(fresh, &types.RawAttempt{
			ID:        uuid.New(),
			CourseID:  course.ID,
			AttemptID: item.AttemptID,
			UserID:    item.UserID,
			CreatedAt: item.CreatedAt.UTC(),
			IsCorrect: item.IsCorrect,
		})
	}

	if _, err := s.attemptRepo.Create(ctx, nil, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// upsertAttemptAggregates adds the new attempts' counts onto each affected
// day and recomputes that day's distinct active-user count from the raw
// store, so repeated upserts stay correct.
func (s *syncService) upsertAttemptAggregates(ctx context.Context, course *types.Course, attempts []*types.RawAttempt, loc *time.Location) error {
	if len(attempts) == 0 {
		return nil
	}

	grouped := make(map[types.Date][]*types.RawAttempt)
	var order []types.Date
	for _, a := range attempts {
		date := tzdate.ToLocalDate(a.CreatedAt, loc)
		if _, seen := grouped[date]; !seen {
			order = append(order, date)
		}
		grouped[date] = append(grouped[date], a)
	}

	for _, date := range order {
		group := grouped[date]
		metric, err := s.getOrNewMetric(ctx, course.ID, date)
		if err != nil {
			return err
		}

		correct := 0
		for _, a := range group {
			if a.IsCorrect {
				correct++
			}
		}
		metric.TotalAttempts += len(group)
		metric.CorrectAttempts += correct
		metric.WrongAttempts += len(group) - correct

		startUTC, endUTC := tzdate.UTCRange(date, loc)
		activeUsers, err := s.attemptRepo.CountDistinctUsers(ctx, nil, course.ID, startUTC, endUTC)
		if err != nil {
			return err
		}
		metric.ActiveUsers = activeUsers

		if err := s.metricRepo.Upsert(ctx, nil, metric); err != nil {
			return err
		}
	}
	return nil
}

// upsertDailyCounts replaces the targeted field with this run's per-day
// count. The value replaces rather than accumulates because every run
// refetches the full window.
func (s *syncService) upsertDailyCounts(ctx context.Context, course *types.Course, stamps []time.Time, loc *time.Location, apply func(*types.DailyMetric, int)) error {
	grouped := make(map[types.Date]int)
	for _, t := range stamps {
		grouped[tzdate.ToLocalDate(t, loc)]++
	}

	for date, count := range grouped {
		metric, err := s.getOrNewMetric(ctx, course.ID, date)
		if err != nil {
			return err
		}
		apply(metric, count)
		if err := s.metricRepo.Upsert(ctx, nil, metric); err != nil {
			return err
		}
	}
	return nil
}

// upsertReviews overwrites each affected day's review fields from exactly
// this run's fetched set. The upstream reviews carry no stable identity to
// merge on, so a later run with a narrower window replaces what a wider run
// recorded; days outside this run's set are untouched.
func (s *syncService) upsertReviews(ctx context.Context, course *types.Course, reviews []stepik.Review, loc *time.Location) error {
	grouped := make(map[types.Date][]stepik.Review)
	for _, rv := range reviews {
		date := tzdate.ToLocalDate(rv.CreatedAt, loc)
		grouped[date] = append(grouped[date], rv)
	}

	for date, group := range grouped {
		metric, err := s.getOrNewMetric(ctx, course.ID, date)
		if err != nil {
			return err
		}

		stars := make([]int, 6)
		sum := 0
		values := make([]float64, 0, len(group))
		for _, rv := range group {
			if rv.Stars >= 1 && rv.Stars <= 5 {
				stars[rv.Stars]++
			}
			sum += rv.Stars
			values = append(values, float64(rv.Stars))
		}

		metric.ReviewsCount = len(group)
		metric.ReviewsStar1 = intPtr(stars[1])
		metric.ReviewsStar2 = intPtr(stars[2])
		metric.ReviewsStar3 = intPtr(stars[3])
		metric.ReviewsStar4 = intPtr(stars[4])
		metric.ReviewsStar5 = intPtr(stars[5])
		avg := float64(sum) / float64(len(group))
		metric.ReviewsAverage = &avg
		metric.ReviewsMedian = medianOf(values)

		if err := s.metricRepo.Upsert(ctx, nil, metric); err != nil {
			return err
		}
	}
	return nil
}

// upsertRatings sets each day's rating to the last snapshot observed for
// that date in fetch order.
func (s *syncService) upsertRatings(ctx context.Context, course *types.Course, ratings []stepik.Rating, loc *time.Location) error {
	grouped := make(map[types.Date]stepik.Rating)
	for _, rt := range ratings {
		grouped[tzdate.ToLocalDate(rt.RecordedAt, loc)] = rt
	}

	for date, last := range grouped {
		metric, err := s.getOrNewMetric(ctx, course.ID, date)
		if err != nil {
			return err
		}
		value := last.Rating
		metric.RatingValue = &value
		if err := s.metricRepo.Upsert(ctx, nil, metric); err != nil {
			return err
		}
	}
	return nil
}

func (s *syncService) getOrNewMetric(ctx context.Context, courseID uuid.UUID, date types.Date) (*types.DailyMetric, error) {
	metric, err := s.metricRepo.GetByCourseAndDate(ctx, nil, courseID, date)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		metric = &types.DailyMetric{CourseID: courseID, Date: date}
	}
	return metric, nil
}

func intPtr(v int) *int { return &v }
