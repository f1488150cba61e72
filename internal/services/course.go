package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/repos"
	"stepik-analytics/internal/types"
)

// Default Stepik course ids registered on first start.
var defaultStepikIDs = []int64{202590, 210038, 199780}

type CourseService interface {
	// Register adds a course by its Stepik id; registering a known id
	// returns the existing record unchanged.
	Register(ctx context.Context, stepikID int64, title, url string) (*types.Course, error)
	List(ctx context.Context) ([]*types.Course, error)
	RecentRuns(ctx context.Context, stepikID int64, limit int) ([]*types.SyncRun, error)
	SeedDefaults(ctx context.Context) error
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	runRepo    repos.SyncRunRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	runRepo repos.SyncRunRepo,
) CourseService {
	serviceLog := baseLog.With("service", "CourseService")
	return &courseService{
		db:         db,
		log:        serviceLog,
		courseRepo: courseRepo,
		runRepo:    runRepo,
	}
}

func (cs *courseService) Register(ctx context.Context, stepikID int64, title, url string) (*types.Course, error) {
	existing, err := cs.courseRepo.GetByStepikIDs(ctx, nil, []int64{stepikID})
	if err != nil {
		return nil, fmt.Errorf("check existing course: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	if title == "" {
		title = fmt.Sprintf("Course %d", stepikID)
	}
	if url == "" {
		url = fmt.Sprintf("https://stepik.org/course/%d", stepikID)
	}

	course := &types.Course{
		ID:         uuid.New(),
		StepikID:   stepikID,
		Title:      title,
		URL:        url,
		AddedAt:    time.Now().UTC(),
		SyncStatus: types.SyncStatusNever,
	}
	if _, err := cs.courseRepo.Create(ctx, nil, []*types.Course{course}); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	cs.log.Info("registered course", "stepik_id", stepikID)
	return course, nil
}

func (cs *courseService) List(ctx context.Context) ([]*types.Course, error) {
	return cs.courseRepo.GetAll(ctx, nil)
}

func (cs *courseService) RecentRuns(ctx context.Context, stepikID int64, limit int) ([]*types.SyncRun, error) {
	courses, err := cs.courseRepo.GetByStepikIDs(ctx, nil, []int64{stepikID})
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", stepikID, err)
	}
	if len(courses) == 0 {
		return nil, nil
	}
	return cs.runRepo.GetRecentByCourse(ctx, nil, courses[0].ID, limit)
}

func (cs *courseService) SeedDefaults(ctx context.Context) error {
	for _, id := range defaultStepikIDs {
		if _, err := cs.Register(ctx, id, "", ""); err != nil {
			return fmt.Errorf("seed course %d: %w", id, err)
		}
	}
	return nil
}
