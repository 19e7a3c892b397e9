package http

import (
	"github.com/gin-gonic/gin"

	"github.com/storytellerz/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Stored card scans
	router.Static("/uploads", cfg.Server.UploadDir)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Card ingestion workflow
		cards := v1.Group("/cards")
		{
			cards.POST("/extract", handler.ExtractCard)
			cards.GET("/status", handler.ExtractionStatus)
			cards.GET("/draft", handler.GetDraft)
			cards.PATCH("/draft", handler.EditDraftField)
			cards.PUT("/draft/pricing", handler.UpdateDraftPricing)
			cards.POST("/draft/save", handler.SaveDraft)
			cards.POST("/draft/cancel", handler.CancelDraft)
			cards.POST("/draft/delete", handler.RequestDraftDelete)
			cards.POST("/draft/delete/confirm", handler.ConfirmDraftDelete)
		}

		// Vendor archive
		vendors := v1.Group("/vendors")
		{
			vendors.GET("", handler.ListVendors)
			vendors.POST("/:id/edit", handler.EditVendor)
		}

		// Multi-source search and shortlist
		v1.GET("/search", handler.Search)
		shortlist := v1.Group("/shortlist")
		{
			shortlist.GET("", handler.GetShortlist)
			shortlist.POST("", handler.AddShortlistEntry)
			shortlist.DELETE("/:index", handler.RemoveShortlistEntry)
			shortlist.GET("/export", handler.ExportShortlist)
		}
	}

	return router
}
