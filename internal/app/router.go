package app

import (
	"github.com/gin-gonic/gin"

	"stepik-analytics/internal/server"
)

func wireRouter(handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		CourseHandler:  handlerset.Course,
		SyncHandler:    handlerset.Sync,
		MetricsHandler: handlerset.Metrics,
		ExportHandler:  handlerset.Export,
	})
}
