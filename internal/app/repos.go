package app

import (
	"gorm.io/gorm"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/repos"
)

type Repos struct {
	Course      repos.CourseRepo
	SyncRun     repos.SyncRunRepo
	DailyMetric repos.DailyMetricRepo
	RawAttempt  repos.RawAttemptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:      repos.NewCourseRepo(db, log),
		SyncRun:     repos.NewSyncRunRepo(db, log),
		DailyMetric: repos.NewDailyMetricRepo(db, log),
		RawAttempt:  repos.NewRawAttemptRepo(db, log),
	}
}
