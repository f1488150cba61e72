package app

import (
	"gorm.io/gorm"

	"stepik-analytics/internal/clients/stepik"
	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/services"
)

type Services struct {
	Course      services.CourseService
	Sync        services.SyncService
	Aggregation services.AggregationService
	Export      services.ExportService
	Scheduler   *services.Scheduler
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	client := stepik.NewClient(cfg.Endpoints, cfg.APIToken, log)
	settings := func() services.Settings {
		return services.Settings{
			BackfillDays: cfg.BackfillDays,
			Location:     cfg.Location,
		}
	}

	courseService := services.NewCourseService(db, log, reposet.Course, reposet.SyncRun)
	syncService := services.NewSyncService(db, log, reposet.Course, reposet.SyncRun, reposet.DailyMetric, reposet.RawAttempt, client, settings)
	aggregationService := services.NewAggregationService(db, log, reposet.Course, reposet.DailyMetric)
	exportService := services.NewExportService(db, log, aggregationService)
	scheduler := services.NewScheduler(log, syncService, cfg.AutoSyncEnabled, cfg.SyncInterval)

	return Services{
		Course:      courseService,
		Sync:        syncService,
		Aggregation: aggregationService,
		Export:      exportService,
		Scheduler:   scheduler,
	}
}
