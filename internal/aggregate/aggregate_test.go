package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quintopanel/server/internal/models"
)

func row(id, neighborhood string, price, area int, ppa float64) models.Observation {
	return models.Observation{
		PropertyID:   id,
		Neighborhood: neighborhood,
		Price:        price,
		Area:         area,
		PricePerArea: ppa,
	}
}

func TestBy_Neighborhood(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.Observation{
		{PropertyID: "1", Neighborhood: "Saude", Price: 400000, Area: 80, PricePerArea: 5000, ObservedAt: day1},
		{PropertyID: "2", Neighborhood: "Saude", Price: 600000, Area: 100, PricePerArea: 6000, ObservedAt: day2},
		{PropertyID: "3", Neighborhood: "Lapa", Price: 300000, Area: 60, PricePerArea: 5000, ObservedAt: day1},
	}

	out := By(rows, ByNeighborhood)
	require.Len(t, out, 2)

	// Sorted by mean price descending: Saude (500000) before Lapa (300000).
	saude, lapa := out[0], out[1]
	assert.Equal(t, "Saude", saude.Key)
	assert.Equal(t, 2, saude.Count)
	assert.Equal(t, 400000, saude.PriceMin)
	assert.Equal(t, 600000, saude.PriceMax)
	assert.Equal(t, 500000.0, saude.PriceMean)
	assert.Equal(t, 5500.0, saude.PricePerAreaMean)
	assert.Equal(t, 90.0, saude.AreaMean)
	assert.Equal(t, day2, saude.LastObservedAt)

	assert.Equal(t, "Lapa", lapa.Key)
	assert.Equal(t, 1, lapa.Count)
}

func TestBy_CountsDistinctProperties(t *testing.T) {
	// Three observations of the same property over time must count once.
	rows := []models.Observation{
		row("1", "Saude", 400000, 80, 5000),
		row("1", "Saude", 410000, 80, 5125),
		row("1", "Saude", 420000, 80, 5250),
		row("2", "Saude", 500000, 90, 5555.56),
	}

	out := By(rows, ByNeighborhood)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Count, "count is distinct properties, not rows")
}

func TestBy_Empty(t *testing.T) {
	assert.Empty(t, By(nil, ByNeighborhood))
	assert.Empty(t, By([]models.Observation{}, ByZone))
}

func TestStreetKey(t *testing.T) {
	tests := []struct {
		address  string
		expected string
	}{
		{"Rua Guaiuba, 123 - Vila Guarani", "Rua Guaiuba"},
		{"Avenida Paulista - Bela Vista", "Avenida Paulista"},
		{"Rua Augusta", "Rua Augusta"},
		{"  Rua do Carmo , 10", "Rua do Carmo"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StreetKey(tt.address), "address %q", tt.address)
	}
}

func TestBy_Street(t *testing.T) {
	rows := []models.Observation{
		{PropertyID: "1", Address: "Rua Guaiuba, 123", Price: 400000},
		{PropertyID: "2", Address: "Rua Guaiuba, 456 - Vila Guarani", Price: 600000},
		{PropertyID: "3", Address: "Avenida Paulista, 1000", Price: 900000},
	}

	out := By(rows, ByStreet)
	require.Len(t, out, 2)
	assert.Equal(t, "Avenida Paulista", out[0].Key)
	assert.Equal(t, "Rua Guaiuba", out[1].Key)
	assert.Equal(t, 2, out[1].Count)
}

func TestSummary(t *testing.T) {
	rows := []models.Observation{
		{PropertyID: "1", Price: 400000, CondoFee: 500, Area: 80, PricePerArea: 5000},
		{PropertyID: "1", Price: 420000, CondoFee: 500, Area: 80, PricePerArea: 5250},
		{PropertyID: "2", Price: 600000, CondoFee: 900, Area: 100, PricePerArea: 6000},
	}

	s := Summary(rows)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.UniqueCount)
	assert.Equal(t, 473333.33, s.PriceMean)
	assert.Equal(t, 420000.0, s.PriceMedian)
	assert.Equal(t, 633.33, s.CondoFeeMean)
}

func TestSummary_Empty(t *testing.T) {
	assert.Equal(t, models.SummaryStats{}, Summary(nil))
}

func TestPriceIndex(t *testing.T) {
	fullLog := []models.Observation{
		row("1", "X", 0, 0, 100),
		row("2", "X", 0, 0, 200),
		row("3", "Y", 0, 0, 0),
	}
	means := NeighborhoodMeans(fullLog)
	assert.Equal(t, 150.0, means["X"])

	listing := row("1", "X", 0, 0, 100)
	assert.Equal(t, 0.667, PriceIndex(listing, means))

	above := row("2", "X", 0, 0, 200)
	assert.Equal(t, 1.333, PriceIndex(above, means))

	zeroMean := row("3", "Y", 0, 0, 50)
	assert.Equal(t, 0.0, PriceIndex(zeroMean, means), "zero neighborhood mean yields 0")

	unknown := row("4", "Nowhere", 0, 0, 50)
	assert.Equal(t, 0.0, PriceIndex(unknown, means), "unknown neighborhood yields 0")
}

func TestPriceIndex_UsesFullLogMeanNotFilteredSubset(t *testing.T) {
	fullLog := []models.Observation{
		row("1", "X", 0, 0, 100),
		row("2", "X", 0, 0, 200),
		row("3", "X", 0, 0, 600),
	}
	filtered := fullLog[:1] // a caller filtered down to one cheap listing

	fullMeans := NeighborhoodMeans(fullLog)      // mean 300
	filteredMeans := NeighborhoodMeans(filtered) // mean 100
	assert.NotEqual(t, fullMeans["X"], filteredMeans["X"],
		"the two denominator interpretations must be distinguishable")

	// Index stays anchored to the full log even when displaying a subset.
	assert.Equal(t, 0.333, PriceIndex(filtered[0], fullMeans))
}

func TestUnmappedNeighborhoods(t *testing.T) {
	rows := []models.Observation{
		{PropertyID: "1", Neighborhood: "Saude", Zone: "Zona Sul"},
		{PropertyID: "2", Neighborhood: "Brooklin", Zone: "Sem zona"},
		{PropertyID: "2", Neighborhood: "Brooklin", Zone: "Sem zona"},
		{PropertyID: "3", Neighborhood: "Brooklin", Zone: "Sem zona"},
		{PropertyID: "4", Neighborhood: "N/A", Zone: "Sem zona"},
	}

	counts := UnmappedNeighborhoods(rows, "Sem zona")
	assert.Equal(t, map[string]int{"Brooklin": 2, "N/A": 1}, counts)
}
