package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.GetHealth)
		api.GET("/listings", handler.GetListings)
		api.POST("/listings/search", handler.SearchListings)
		api.GET("/summary", handler.GetSummary)
		api.GET("/aggregates/neighborhoods", handler.GetNeighborhoodAggregates)
		api.GET("/aggregates/streets", handler.GetStreetAggregates)
		api.GET("/aggregates/zones", handler.GetZoneAggregates)
		api.GET("/zones", handler.GetZones)
		api.GET("/neighborhoods/unmapped", handler.GetUnmappedNeighborhoods)
		api.GET("/heatmap", handler.GetHeatmap)
		api.POST("/snapshots", handler.IngestSnapshot)
	}
}
