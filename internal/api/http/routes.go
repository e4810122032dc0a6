package http

import (
	"github.com/gin-gonic/gin"
)

// Register mounts the curator API on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	router.GET("/views", h.GetViews)
	router.GET("/views/:view", h.GetView)

	router.GET("/categories", h.GetCategories)
	router.PUT("/category", h.SetCategory)

	router.GET("/preferences", h.GetPreferences)
	router.PUT("/preferences", h.UpdatePreferences)
	router.DELETE("/preferences", h.ResetPreferences)

	catalog := router.Group("/catalog")
	{
		catalog.GET("/stats", h.CatalogStats)
		catalog.GET("/export", h.ExportCatalog)
		catalog.GET("/reload", h.ReloadStatus)
		catalog.POST("/reload", h.ReloadCatalog)
	}
}
