package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quintopanel/server/config"
	"quintopanel/server/internal/aggregate"
	"quintopanel/server/internal/database"
	"quintopanel/server/internal/enrich"
	"quintopanel/server/internal/format"
	"quintopanel/server/internal/geomap"
	"quintopanel/server/internal/models"
	"quintopanel/server/internal/query"
	"quintopanel/server/internal/queue"
	"quintopanel/server/internal/reconcile"
)

type Handler struct {
	db       *database.Database
	logger   *logrus.Logger
	enricher *enrich.Enricher
	heatmap  *geomap.HeatmapBuilder
	queue    *queue.ObservationQueue
	tables   *config.NeighborhoodTables
}

// ListingView is an Observation plus derived display columns. PriceIndex is
// the listing's price per m² relative to its neighborhood mean over the full
// log (1.0 = at the mean).
type ListingView struct {
	models.Observation
	PriceIndex          float64 `json:"price_index"`
	PriceDisplay        string  `json:"price_display"`
	PricePerAreaDisplay string  `json:"price_per_area_display"`
	AreaDisplay         string  `json:"area_display"`
}

func NewHandler(db *database.Database, tables *config.NeighborhoodTables, enricher *enrich.Enricher, q *queue.ObservationQueue, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:       db,
		logger:   logger,
		enricher: enricher,
		heatmap:  geomap.NewHeatmapBuilder(tables, logger),
		queue:    q,
		tables:   tables,
	}
}

// loadLog fetches the full observation log; a nil return means the error
// response has already been written.
func (h *Handler) loadLog(c *gin.Context) []models.Observation {
	log, err := h.db.GetAllObservations()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load observation log")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load observations"})
		return nil
	}
	if log == nil {
		log = []models.Observation{}
	}
	return log
}

func viewOf(c *gin.Context, log []models.Observation) []models.Observation {
	if c.DefaultQuery("view", "latest") == "all" {
		return log
	}
	return reconcile.LatestView(log)
}

func (h *Handler) GetListings(c *gin.Context) {
	var filter query.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing filters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	log := h.loadLog(c)
	if log == nil {
		return
	}

	rows := query.Apply(viewOf(c, log), filter)
	c.JSON(http.StatusOK, h.toListingViews(rows, log))
}

// SearchListings is the POST variant taking the filter as a JSON body, which
// keeps the distinction between an absent selection and an explicitly empty
// one (an empty JSON array matches nothing).
func (h *Handler) SearchListings(c *gin.Context) {
	var filter query.Filter
	if err := c.ShouldBindJSON(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing filter body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter body"})
		return
	}

	log := h.loadLog(c)
	if log == nil {
		return
	}

	rows := query.Apply(viewOf(c, log), filter)
	c.JSON(http.StatusOK, h.toListingViews(rows, log))
}

func (h *Handler) toListingViews(rows, log []models.Observation) []ListingView {
	means := aggregate.NeighborhoodMeans(log)

	views := make([]ListingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ListingView{
			Observation:         row,
			PriceIndex:          aggregate.PriceIndex(row, means),
			PriceDisplay:        format.BRL(row.Price),
			PricePerAreaDisplay: format.BRLDecimal(row.PricePerArea),
			AreaDisplay:         format.Area(row.Area),
		})
	}
	return views
}

func (h *Handler) GetSummary(c *gin.Context) {
	var filter query.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse summary filters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	log := h.loadLog(c)
	if log == nil {
		return
	}

	rows := query.Apply(viewOf(c, log), filter)
	summary := aggregate.Summary(rows)

	typeCounts := make(map[string]int)
	for _, row := range rows {
		typeCounts[row.PropertyType]++
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":     summary,
		"type_counts": typeCounts,
		"displays": gin.H{
			"price_mean":          format.Compact(summary.PriceMean),
			"price_median":        format.Compact(summary.PriceMedian),
			"price_per_area_mean": format.BRLDecimal(summary.PricePerAreaMean),
		},
	})
}

func (h *Handler) GetNeighborhoodAggregates(c *gin.Context) {
	h.respondAggregates(c, aggregate.ByNeighborhood)
}

func (h *Handler) GetStreetAggregates(c *gin.Context) {
	h.respondAggregates(c, aggregate.ByStreet)
}

func (h *Handler) GetZoneAggregates(c *gin.Context) {
	h.respondAggregates(c, aggregate.ByZone)
}

func (h *Handler) respondAggregates(c *gin.Context, key aggregate.KeyFunc) {
	var filter query.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse aggregate filters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	log := h.loadLog(c)
	if log == nil {
		return
	}

	rows := query.Apply(viewOf(c, log), filter)
	c.JSON(http.StatusOK, aggregate.By(rows, key))
}

// GetZones reports the canonical neighborhoods seen per zone with distinct
// property counts, plus the unmapped bucket for curation.
func (h *Handler) GetZones(c *gin.Context) {
	log := h.loadLog(c)
	if log == nil {
		return
	}

	latest := reconcile.LatestView(log)

	perZone := make(map[string]map[string]int)
	seen := make(map[string]map[string]map[string]bool)
	for _, row := range latest {
		if perZone[row.Zone] == nil {
			perZone[row.Zone] = make(map[string]int)
			seen[row.Zone] = make(map[string]map[string]bool)
		}
		if seen[row.Zone][row.Neighborhood] == nil {
			seen[row.Zone][row.Neighborhood] = make(map[string]bool)
		}
		if !seen[row.Zone][row.Neighborhood][row.PropertyID] {
			seen[row.Zone][row.Neighborhood][row.PropertyID] = true
			perZone[row.Zone][row.Neighborhood]++
		}
	}

	zones := append(h.tables.ZoneNames(), config.ZoneUnmapped)
	reports := make([]models.ZoneReport, 0, len(zones))
	for _, zone := range zones {
		neighborhoods := perZone[zone]
		if neighborhoods == nil {
			neighborhoods = map[string]int{}
		}
		reports = append(reports, models.ZoneReport{Zone: zone, Neighborhoods: neighborhoods})
	}

	c.JSON(http.StatusOK, reports)
}

func (h *Handler) GetUnmappedNeighborhoods(c *gin.Context) {
	log := h.loadLog(c)
	if log == nil {
		return
	}

	latest := reconcile.LatestView(log)
	c.JSON(http.StatusOK, aggregate.UnmappedNeighborhoods(latest, config.ZoneUnmapped))
}

func (h *Handler) GetHeatmap(c *gin.Context) {
	log := h.loadLog(c)
	if log == nil {
		return
	}

	latest := reconcile.LatestView(log)
	fc := h.heatmap.Build(aggregate.By(latest, aggregate.ByNeighborhood))
	c.JSON(http.StatusOK, fc)
}

// IngestSnapshot accepts a batch of raw scraped rows, enriches them and hands
// them to the batch processor queue. The write is asynchronous; 202 means
// accepted, not persisted.
func (h *Handler) IngestSnapshot(c *gin.Context) {
	var raws []models.RawObservation
	if err := c.ShouldBindJSON(&raws); err != nil {
		h.logger.WithError(err).Error("Failed to parse snapshot batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid snapshot batch"})
		return
	}
	if len(raws) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty snapshot batch"})
		return
	}

	enriched := h.enricher.EnrichAll(raws)
	batch := make([]*models.Observation, 0, len(enriched))
	for i := range enriched {
		if enriched[i].PropertyID == "" {
			continue
		}
		batch = append(batch, &enriched[i])
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Snapshot batch has no rows with a property id"})
		return
	}

	if err := h.queue.Push(batch); err != nil {
		if errors.Is(err, queue.ErrQueueFull) || errors.Is(err, queue.ErrQueueClosed) {
			h.logger.WithError(err).Warn("Snapshot batch rejected by queue")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingestion queue unavailable, retry later"})
			return
		}
		h.logger.WithError(err).Error("Failed to enqueue snapshot batch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue snapshot batch"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "accepted",
		"received": len(raws),
		"enqueued": len(batch),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	total, distinct, err := h.db.CountObservations()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count observations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count observations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"observations":        total,
		"distinct_properties": distinct,
		"queue_depth":         h.queue.Len(),
	})
}
