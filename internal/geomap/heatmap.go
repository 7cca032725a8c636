// Package geomap builds the map overlay consumed by the dashboard's heatmap
// layer: one point feature per neighborhood, weighted by the aggregate stats
// of its latest listings.
package geomap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"quintopanel/server/config"
	"quintopanel/server/internal/models"
)

type HeatmapBuilder struct {
	tables *config.NeighborhoodTables
	logger *logrus.Logger
}

func NewHeatmapBuilder(tables *config.NeighborhoodTables, logger *logrus.Logger) *HeatmapBuilder {
	return &HeatmapBuilder{
		tables: tables,
		logger: logger,
	}
}

// Build turns neighborhood aggregates into a GeoJSON FeatureCollection.
// Neighborhoods without a known coordinate are skipped, not guessed.
func (h *HeatmapBuilder) Build(rows []models.AggregateRow) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, row := range rows {
		coords, ok := h.tables.Coordinates[row.Key]
		if !ok {
			h.logger.WithField("neighborhood", row.Key).Debug("No coordinates for neighborhood, skipping heatmap point")
			continue
		}

		// Coordinates are stored [lat, lon]; orb points are (lon, lat).
		feature := geojson.NewFeature(orb.Point{coords[1], coords[0]})
		feature.Properties = geojson.Properties{
			"neighborhood":        row.Key,
			"listings":            row.Count,
			"price_mean":          row.PriceMean,
			"price_per_area_mean": row.PricePerAreaMean,
			"area_mean":           row.AreaMean,
		}
		fc.Append(feature)
	}

	return fc
}
