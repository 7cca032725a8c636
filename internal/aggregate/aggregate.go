// Package aggregate computes per-group statistics and the per-listing
// neighborhood price index over enriched observations.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"quintopanel/server/internal/models"
)

// KeyFunc extracts the grouping key from an observation.
type KeyFunc func(models.Observation) string

func ByNeighborhood(o models.Observation) string { return o.Neighborhood }

func ByZone(o models.Observation) string { return o.Zone }

func ByStreet(o models.Observation) string { return StreetKey(o.Address) }

// StreetKey derives the street name from a full address: everything before
// the first "," or " - " separator, trimmed.
func StreetKey(address string) string {
	street := address
	if i := strings.Index(street, ","); i >= 0 {
		street = street[:i]
	}
	if i := strings.Index(street, " - "); i >= 0 {
		street = street[:i]
	}
	return strings.TrimSpace(street)
}

// By groups rows by key and computes one AggregateRow per group. Count is
// the number of distinct property ids; the min/max/mean statistics run over
// every row in the group, so aggregating the full history weights properties
// by how often they were observed — pass the latest view to avoid that.
// Results are sorted by mean price descending (key ascending on ties).
// Empty input yields an empty slice.
func By(rows []models.Observation, key KeyFunc) []models.AggregateRow {
	groups := make(map[string][]models.Observation)
	var order []string
	for _, row := range rows {
		k := key(row)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}

	out := make([]models.AggregateRow, 0, len(order))
	for _, k := range order {
		out = append(out, aggregateGroup(k, groups[k]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriceMean != out[j].PriceMean {
			return out[i].PriceMean > out[j].PriceMean
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func aggregateGroup(key string, rows []models.Observation) models.AggregateRow {
	ids := make(map[string]struct{}, len(rows))
	prices := make(stats.Float64Data, 0, len(rows))
	ppas := make(stats.Float64Data, 0, len(rows))
	areas := make(stats.Float64Data, 0, len(rows))
	var last time.Time

	for _, row := range rows {
		ids[row.PropertyID] = struct{}{}
		prices = append(prices, float64(row.Price))
		ppas = append(ppas, row.PricePerArea)
		areas = append(areas, float64(row.Area))
		if row.ObservedAt.After(last) {
			last = row.ObservedAt
		}
	}

	priceMin, _ := stats.Min(prices)
	priceMax, _ := stats.Max(prices)
	priceMean, _ := stats.Mean(prices)
	ppaMean, _ := stats.Mean(ppas)
	areaMean, _ := stats.Mean(areas)

	return models.AggregateRow{
		Key:              key,
		Count:            len(ids),
		PriceMin:         int(priceMin),
		PriceMax:         int(priceMax),
		PriceMean:        round2(priceMean),
		PricePerAreaMean: round2(ppaMean),
		AreaMean:         round2(areaMean),
		LastObservedAt:   last,
	}
}

// Summary computes the headline numbers over a set of rows. An empty set
// yields the zero value, not an error.
func Summary(rows []models.Observation) models.SummaryStats {
	if len(rows) == 0 {
		return models.SummaryStats{}
	}

	ids := make(map[string]struct{}, len(rows))
	prices := make(stats.Float64Data, 0, len(rows))
	ppas := make(stats.Float64Data, 0, len(rows))
	areas := make(stats.Float64Data, 0, len(rows))
	condos := make(stats.Float64Data, 0, len(rows))
	var last time.Time

	for _, row := range rows {
		ids[row.PropertyID] = struct{}{}
		prices = append(prices, float64(row.Price))
		ppas = append(ppas, row.PricePerArea)
		areas = append(areas, float64(row.Area))
		condos = append(condos, float64(row.CondoFee))
		if row.ObservedAt.After(last) {
			last = row.ObservedAt
		}
	}

	priceMean, _ := stats.Mean(prices)
	priceMedian, _ := stats.Median(prices)
	ppaMean, _ := stats.Mean(ppas)
	areaMean, _ := stats.Mean(areas)
	condoMean, _ := stats.Mean(condos)

	return models.SummaryStats{
		Count:            len(rows),
		UniqueCount:      len(ids),
		PriceMean:        round2(priceMean),
		PriceMedian:      round2(priceMedian),
		PricePerAreaMean: round2(ppaMean),
		AreaMean:         round2(areaMean),
		CondoFeeMean:     round2(condoMean),
		LastObservedAt:   last,
	}
}

// NeighborhoodMeans computes the mean price per area for every canonical
// neighborhood. Callers should feed the full log, not a filtered subset, so
// the price index stays comparable across different filter selections.
func NeighborhoodMeans(rows []models.Observation) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range rows {
		sums[row.Neighborhood] += row.PricePerArea
		counts[row.Neighborhood]++
	}

	means := make(map[string]float64, len(sums))
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means
}

// PriceIndex is the IBairro of a listing: its price per area relative to its
// neighborhood's mean, rounded to 3 decimals. Above 1 means above the
// neighborhood average. Unknown or zero-mean neighborhoods yield 0.
func PriceIndex(row models.Observation, neighborhoodMeans map[string]float64) float64 {
	mean := neighborhoodMeans[row.Neighborhood]
	if mean == 0 {
		return 0
	}
	return math.Round(row.PricePerArea/mean*1000) / 1000
}

// UnmappedNeighborhoods reports canonical names classified as "Sem zona"
// with their distinct property counts, for table curation.
func UnmappedNeighborhoods(rows []models.Observation, unmappedZone string) map[string]int {
	ids := make(map[string]map[string]struct{})
	for _, row := range rows {
		if row.Zone != unmappedZone {
			continue
		}
		if ids[row.Neighborhood] == nil {
			ids[row.Neighborhood] = make(map[string]struct{})
		}
		ids[row.Neighborhood][row.PropertyID] = struct{}{}
	}

	counts := make(map[string]int, len(ids))
	for name, set := range ids {
		counts[name] = len(set)
	}
	return counts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
