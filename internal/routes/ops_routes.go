package routes

import (
	"github.com/gin-gonic/gin"

	"activity_hub/internal/controllers"
	"activity_hub/internal/metrics"
)

func OpsRoutes(r *gin.Engine, health *controllers.HealthController) {
	r.GET("/health", health.Live)
	r.GET("/health/live", health.Live)
	r.GET("/health/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
