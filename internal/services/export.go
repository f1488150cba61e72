package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/types"
)

var exportHeader = []string{
	"date",
	"total_attempts",
	"correct_attempts",
	"wrong_attempts",
	"active_users",
	"new_students",
	"certificates_issued",
	"reviews_count",
	"reviews_star1",
	"reviews_star2",
	"reviews_star3",
	"reviews_star4",
	"reviews_star5",
	"reviews_average",
	"reviews_median",
	"rating_value",
}

type ExportService interface {
	// ExportCSV writes the course's daily metrics for the range to a CSV
	// file under dir and returns its path. Returns "" when the range holds
	// no rows.
	ExportCSV(ctx context.Context, stepikID int64, r types.TimeRange, dir string) (string, error)
}

type exportService struct {
	db  *gorm.DB
	log *logger.Logger
	agg AggregationService
}

func NewExportService(db *gorm.DB, baseLog *logger.Logger, agg AggregationService) ExportService {
	serviceLog := baseLog.With("service", "ExportService")
	return &exportService{db: db, log: serviceLog, agg: agg}
}

func (s *exportService) ExportCSV(ctx context.Context, stepikID int64, r types.TimeRange, dir string) (string, error) {
	rows, err := s.agg.DailyMetrics(ctx, []int64{stepikID}, r)
	if err != nil {
		return "", fmt.Errorf("load metrics: %w", err)
	}
	if len(rows) == 0 {
		s.log.Warn("no data to export", "stepik_id", stepikID, "range", r.String())
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	fileName := fmt.Sprintf("stepik_course_%d_%s_%s_%s.csv",
		stepikID, r.Period, compactDate(r.Start), compactDate(r.End))
	path := filepath.Join(dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, m := range rows {
		record := []string{
			m.Date.String(),
			strconv.Itoa(m.TotalAttempts),
			strconv.Itoa(m.CorrectAttempts),
			strconv.Itoa(m.WrongAttempts),
			strconv.Itoa(m.ActiveUsers),
			strconv.Itoa(m.NewStudents),
			strconv.Itoa(m.CertificatesIssued),
			strconv.Itoa(m.ReviewsCount),
			intPtrField(m.ReviewsStar1),
			intPtrField(m.ReviewsStar2),
			intPtrField(m.ReviewsStar3),
			intPtrField(m.ReviewsStar4),
			intPtrField(m.ReviewsStar5),
			floatPtrField(m.ReviewsAverage),
			floatPtrField(m.ReviewsMedian),
			floatPtrField(m.RatingValue),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	s.log.Info("exported csv", "path", path, "rows", len(rows))
	return path, nil
}

func compactDate(d types.Date) string {
	return strings.ReplaceAll(d.String(), "-", "")
}

func intPtrField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatPtrField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
