package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stepik-analytics/internal/handlers"
)

type RouterConfig struct {
	CourseHandler  *handlers.CourseHandler
	SyncHandler    *handlers.SyncHandler
	MetricsHandler *handlers.MetricsHandler
	ExportHandler  *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/courses", cfg.CourseHandler.List)
		api.POST("/courses", cfg.CourseHandler.Register)
		api.GET("/courses/:id/runs", cfg.CourseHandler.Runs)
		api.POST("/courses/:id/sync", cfg.SyncHandler.SyncCourse)
		api.POST("/sync", cfg.SyncHandler.SyncAll)
		api.GET("/metrics/daily", cfg.MetricsHandler.Daily)
		api.GET("/metrics/summary", cfg.MetricsHandler.Summary)
		api.POST("/export/csv", cfg.ExportHandler.ExportCSV)
	}

	return router
}
