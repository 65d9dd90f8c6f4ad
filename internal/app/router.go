package app

import (
	"hireview_backend/docs"
	"hireview_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		jobs := api.Group("/jobs")
		{
			jobs.GET("/:id", c.job.GetJob)
			jobs.GET("/:id/analytics", c.analytics.GetAnalytics)
			jobs.POST("/:id/analytics/refresh", c.analytics.Refresh)
			jobs.GET("/:id/analytics/score-summary", c.analytics.GetScoreSummary)
			jobs.GET("/:id/analytics/report", c.report.Download)
		}
	}
}
