package router

import (
	"github.com/gin-gonic/gin"

	"prokura/internal/handler"
	"prokura/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsOrigins []string,
	extractionH *handler.ExtractionHandler,
	requestH *handler.RequestHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/extractions", extractionH.Extract)
	v1.GET("/commodity-groups", extractionH.CommodityGroups)

	requests := v1.Group("/requests")
	requests.POST("", requestH.Create)
	requests.GET("", requestH.List)
	requests.GET("/export", requestH.Export)
	requests.GET("/:id", requestH.GetByID)
	requests.PATCH("/:id/status", requestH.UpdateStatus)
	requests.GET("/:id/history", requestH.StatusHistory)

	return r
}
