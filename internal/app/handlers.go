package app

import (
	"stepik-analytics/internal/handlers"
	"stepik-analytics/internal/logger"
)

type Handlers struct {
	Course  *handlers.CourseHandler
	Sync    *handlers.SyncHandler
	Metrics *handlers.MetricsHandler
	Export  *handlers.ExportHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Course:  handlers.NewCourseHandler(log, serviceset.Course),
		Sync:    handlers.NewSyncHandler(log, serviceset.Sync),
		Metrics: handlers.NewMetricsHandler(log, serviceset.Aggregation),
		Export:  handlers.NewExportHandler(log, serviceset.Export, cfg.ExportDir),
	}
}
