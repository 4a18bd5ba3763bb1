package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/campuswatch/internal/auth"
)

// SetupRoutes configures all API routes. metricsHandler serves /metrics and
// may be nil.
func SetupRoutes(router *gin.Engine, handler *Handler, jwtManager *auth.JWTManager, metricsHandler http.Handler) {
	router.Use(CORS())

	router.GET("/health", handler.HealthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/", handler.Root)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", handler.Signup) // POST /api/v1/auth/signup
			authGroup.POST("/login", handler.Login)   // POST /api/v1/auth/login
		}

		protected := v1.Group("")
		protected.Use(AuthRequired(jwtManager))
		{
			reports := protected.Group("/reports")
			{
				reports.POST("", handler.CreateReport) // POST /api/v1/reports
				reports.GET("", handler.ListReports)   // GET  /api/v1/reports
				reports.GET("/map", handler.ReportMap) // GET  /api/v1/reports/map
			}

			sos := protected.Group("/sos")
			{
				sos.POST("", handler.CreateSOS) // POST /api/v1/sos
				sos.GET("", handler.ListSOS)    // GET  /api/v1/sos
			}

			ai := protected.Group("/ai")
			{
				ai.GET("/predictions", handler.MockPredictions)       // GET  /api/v1/ai/predictions
				ai.GET("/insights", handler.GetInsights)              // GET  /api/v1/ai/insights
				ai.POST("/insights/refresh", handler.RefreshInsights) // POST /api/v1/ai/insights/refresh
			}
		}
	}
}
