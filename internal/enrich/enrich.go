package enrich

import (
	"strings"
	"time"

	"quintopanel/server/internal/models"
)

// Timestamp layouts accepted for "Data e Hora da Extração". Older exports
// wrote bare dates, newer ones full timestamps.
var observedAtLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ParseObservedAt parses a capture timestamp. Unparseable input yields the
// zero time: ordering then degrades to log order, it never fails.
func ParseObservedAt(raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range observedAtLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Enrich converts one raw log row into an enriched observation: coerced
// numerics, canonical neighborhood, zone and a recomputed price per area.
// It never fails; malformed fields resolve to their documented sentinels.
func (e *Enricher) Enrich(raw models.RawObservation) models.Observation {
	price := ParseCurrency(raw.Price)
	area := ParseCount(raw.Area)
	canonical := e.Normalize(raw.Neighborhood)

	return models.Observation{
		PropertyID:      strings.TrimSpace(raw.PropertyID),
		ObservedAt:      ParseObservedAt(raw.ObservedAt),
		RawNeighborhood: raw.Neighborhood,
		Neighborhood:    canonical,
		Zone:            e.Zone(canonical),
		PropertyType:    strings.TrimSpace(raw.PropertyType),
		Price:           price,
		CondoFee:        ParseCurrency(raw.CondoFee),
		Area:            area,
		Rooms:           ParseCount(raw.Rooms),
		PricePerArea:    PricePerArea(price, area),
		Address:         strings.TrimSpace(raw.Address),
		URL:             raw.URL,
		Title:           strings.TrimSpace(raw.Title),
		City:            e.NormalizeCity(raw.City),
	}
}

// EnrichAll enriches a full snapshot log in input order.
func (e *Enricher) EnrichAll(raws []models.RawObservation) []models.Observation {
	out := make([]models.Observation, len(raws))
	for i, raw := range raws {
		out[i] = e.Enrich(raw)
	}
	return out
}
