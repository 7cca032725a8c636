package reconcile

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quintopanel/server/internal/models"
)

func obs(id string, observedAt string, price int) models.Observation {
	var t time.Time
	if observedAt != "" {
		parsed, err := time.Parse("2006-01-02", observedAt)
		if err != nil {
			panic(err)
		}
		t = parsed
	}
	return models.Observation{PropertyID: id, ObservedAt: t, Price: price}
}

func TestLatestView_KeepsMostRecentPerProperty(t *testing.T) {
	log := []models.Observation{
		obs("1", "2024-01-01", 500000),
		obs("1", "2024-02-01", 520000),
		obs("2", "2024-01-15", 300000),
	}

	view := LatestView(log)

	require.Len(t, view, 2)
	byID := map[string]models.Observation{}
	for _, o := range view {
		byID[o.PropertyID] = o
	}
	assert.Equal(t, 520000, byID["1"].Price)
	assert.Equal(t, 300000, byID["2"].Price)
}

func TestLatestView_Cardinality(t *testing.T) {
	log := []models.Observation{
		obs("1", "2024-01-01", 1),
		obs("1", "2024-01-02", 2),
		obs("1", "2024-01-03", 3),
		obs("2", "2024-01-01", 4),
		obs("3", "", 5),
	}

	view := LatestView(log)
	assert.Equal(t, DistinctProperties(log), len(view))
}

func TestLatestView_Idempotent(t *testing.T) {
	log := []models.Observation{
		obs("1", "2024-01-01", 1),
		obs("2", "2024-01-05", 2),
		obs("1", "2024-03-01", 3),
		obs("3", "", 4),
		obs("2", "2024-01-05", 5),
	}

	once := LatestView(log)
	twice := LatestView(once)
	assert.Equal(t, once, twice)
}

func TestLatestView_RecencyCorrectness(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	var log []models.Observation
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"a", "b", "c", "d"}
	for i := 0; i < 200; i++ {
		log = append(log, models.Observation{
			PropertyID: ids[r.Intn(len(ids))],
			ObservedAt: base.AddDate(0, 0, r.Intn(90)),
			Price:      i,
		})
	}

	view := LatestView(log)
	latest := map[string]time.Time{}
	for _, o := range view {
		latest[o.PropertyID] = o.ObservedAt
	}
	for _, o := range log {
		assert.False(t, latest[o.PropertyID].Before(o.ObservedAt),
			"property %s: view timestamp %v older than log row %v",
			o.PropertyID, latest[o.PropertyID], o.ObservedAt)
	}
}

func TestLatestView_OrderInsensitiveMembership(t *testing.T) {
	log := []models.Observation{
		obs("1", "2024-01-01", 1),
		obs("2", "2024-01-02", 2),
		obs("1", "2024-02-01", 3),
		obs("3", "2024-01-20", 4),
		obs("2", "2023-12-31", 5),
	}

	type pair struct {
		id string
		at time.Time
	}
	members := func(view []models.Observation) map[pair]bool {
		m := map[pair]bool{}
		for _, o := range view {
			m[pair{o.PropertyID, o.ObservedAt}] = true
		}
		return m
	}

	expected := members(LatestView(log))

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Observation, len(log))
		copy(shuffled, log)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, expected, members(LatestView(shuffled)))
	}
}

func TestLatestView_EqualTimestampsLastInputWins(t *testing.T) {
	log := []models.Observation{
		obs("1", "2024-01-01", 100),
		obs("1", "2024-01-01", 200),
		obs("1", "2024-01-01", 300),
	}

	view := LatestView(log)
	require.Len(t, view, 1)
	assert.Equal(t, 300, view[0].Price)
}

func TestLatestView_NoTimestampsDegradesToInputOrder(t *testing.T) {
	log := []models.Observation{
		obs("1", "", 100),
		obs("2", "", 200),
		obs("1", "", 150),
	}

	view := LatestView(log)
	require.Len(t, view, 2)
	byID := map[string]int{}
	for _, o := range view {
		byID[o.PropertyID] = o.Price
	}
	assert.Equal(t, 150, byID["1"], "last row per id in input order wins")
	assert.Equal(t, 200, byID["2"])
}

func TestLatestView_EmptyAndDoesNotMutateInput(t *testing.T) {
	assert.Empty(t, LatestView(nil))
	assert.Empty(t, LatestView([]models.Observation{}))

	log := []models.Observation{
		obs("2", "2024-01-02", 2),
		obs("1", "2024-01-01", 1),
	}
	original := make([]models.Observation, len(log))
	copy(original, log)

	_ = LatestView(log)
	assert.Equal(t, original, log)
}

func TestLatestView_OutputSortedByObservedAt(t *testing.T) {
	log := []models.Observation{
		obs("3", "2024-03-01", 3),
		obs("1", "2024-01-01", 1),
		obs("2", "2024-02-01", 2),
	}

	view := LatestView(log)
	require.Len(t, view, 3)
	for i := 1; i < len(view); i++ {
		assert.False(t, view[i].ObservedAt.Before(view[i-1].ObservedAt))
	}
}
