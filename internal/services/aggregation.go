package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/repos"
	"stepik-analytics/internal/types"
)

type AggregationService interface {
	// DailyMetrics returns stored rows for the courses in the range, ordered
	// by date. An empty stepikIDs slice means all registered courses.
	DailyMetrics(ctx context.Context, stepikIDs []int64, r types.TimeRange) ([]*types.DailyMetric, error)
	// Summary rolls the range up and pairs it with the same computation over
	// the immediately preceding range.
	Summary(ctx context.Context, stepikIDs []int64, r types.TimeRange) (*types.AggregatedSummary, error)
}

type aggregationService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	metricRepo repos.DailyMetricRepo
}

func NewAggregationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	metricRepo repos.DailyMetricRepo,
) AggregationService {
	serviceLog := baseLog.With("service", "AggregationService")
	return &aggregationService{
		db:         db,
		log:        serviceLog,
		courseRepo: courseRepo,
		metricRepo: metricRepo,
	}
}

func (s *aggregationService) DailyMetrics(ctx context.Context, stepikIDs []int64, r types.TimeRange) ([]*types.DailyMetric, error) {
	courseIDs, err := s.resolveCourseIDs(ctx, stepikIDs)
	if err != nil {
		return nil, err
	}
	return s.metricRepo.GetByCoursesInRange(ctx, nil, courseIDs, r.Start, r.End)
}

func (s *aggregationService) Summary(ctx context.Context, stepikIDs []int64, r types.TimeRange) (*types.AggregatedSummary, error) {
	current, err := s.DailyMetrics(ctx, stepikIDs, r)
	if err != nil {
		return nil, fmt.Errorf("current range: %w", err)
	}
	previous, err := s.DailyMetrics(ctx, stepikIDs, r.Previous())
	if err != nil {
		return nil, fmt.Errorf("previous range: %w", err)
	}

	return &types.AggregatedSummary{
		Current:  aggregate(current),
		Previous: aggregate(previous),
	}, nil
}

func (s *aggregationService) resolveCourseIDs(ctx context.Context, stepikIDs []int64) ([]uuid.UUID, error) {
	var courses []*types.Course
	var err error
	if len(stepikIDs) == 0 {
		courses, err = s.courseRepo.GetAll(ctx, nil)
	} else {
		courses, err = s.courseRepo.GetByStepikIDs(ctx, nil, stepikIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve courses: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// aggregate sums count fields across rows. Rating takes the most recent
// non-null daily value; review average and median are the average/median of
// the daily values, not recomputed from raw reviews. Empty or all-null
// inputs yield nil, never zero.
func aggregate(items []*types.DailyMetric) types.Summary {
	var out types.Summary
	var averages, medians []float64

	for _, m := range items {
		out.TotalAttempts += m.TotalAttempts
		out.CorrectAttempts += m.CorrectAttempts
		out.WrongAttempts += m.WrongAttempts
		out.NewStudents += m.NewStudents
		out.CertificatesIssued += m.CertificatesIssued
		out.ReviewsCount += m.ReviewsCount
		out.ActiveUsers += m.ActiveUsers

		if m.ReviewsStar1 != nil {
			out.ReviewsStar1 += *m.ReviewsStar1
		}
		if m.ReviewsStar2 != nil {
			out.ReviewsStar2 += *m.ReviewsStar2
		}
		if m.ReviewsStar3 != nil {
			out.ReviewsStar3 += *m.ReviewsStar3
		}
		if m.ReviewsStar4 != nil {
			out.ReviewsStar4 += *m.ReviewsStar4
		}
		if m.ReviewsStar5 != nil {
			out.ReviewsStar5 += *m.ReviewsStar5
		}

		// Rows arrive ordered by date, so the last non-null value wins.
		if m.RatingValue != nil {
			value := *m.RatingValue
			out.RatingValue = &value
		}
		if m.ReviewsAverage != nil {
			averages = append(averages, *m.ReviewsAverage)
		}
		if m.ReviewsMedian != nil {
			medians = append(medians, *m.ReviewsMedian)
		}
	}

	out.ReviewsAverage = averageOf(averages)
	out.ReviewsMedian = medianOf(medians)
	return out
}

func averageOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// medianOf returns nil for an empty set; an even-length set yields the mean
// of the two central values.
func medianOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	ordered := make([]float64, len(values))
	copy(ordered, values)
	sort.Float64s(ordered)

	mid := len(ordered) / 2
	var median float64
	if len(ordered)%2 == 1 {
		median = ordered[mid]
	} else {
		median = (ordered[mid-1] + ordered[mid]) / 2
	}
	return &median
}
