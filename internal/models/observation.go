package models

import "time"

// RawObservation is one row of the scraped snapshot log, exactly as it was
// captured. Numeric-ish fields are kept loosely typed because upstream data
// mixes currency strings ("R$ 500.000") with plain numbers.
type RawObservation struct {
	PropertyID   string      `json:"property_id"`
	ObservedAt   string      `json:"observed_at"`
	Neighborhood string      `json:"neighborhood"`
	PropertyType string      `json:"property_type"`
	Price        interface{} `json:"price"`
	CondoFee     interface{} `json:"condo_fee"`
	Area         interface{} `json:"area"`
	PricePerArea interface{} `json:"price_per_area"`
	Rooms        interface{} `json:"rooms"`
	Address      string      `json:"address"`
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	City         string      `json:"city"`
}

// Observation is an enriched snapshot row. Price, CondoFee and Rooms are
// coerced integers, Neighborhood is the canonical name and PricePerArea is
// always recomputed from Price and Area, never taken from upstream.
type Observation struct {
	PropertyID      string    `json:"property_id"`
	ObservedAt      time.Time `json:"observed_at"`
	RawNeighborhood string    `json:"raw_neighborhood"`
	Neighborhood    string    `json:"neighborhood"`
	Zone            string    `json:"zone"`
	PropertyType    string    `json:"property_type"`
	Price           int       `json:"price"`
	CondoFee        int       `json:"condo_fee"`
	Area            int       `json:"area"`
	Rooms           int       `json:"rooms"`
	PricePerArea    float64   `json:"price_per_area"`
	Address         string    `json:"address"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	City            string    `json:"city"`
}

// AggregateRow holds per-group statistics (group key is a neighborhood, zone
// or street name). Count is the number of distinct properties in the group,
// the means are over all rows handed to the aggregator.
type AggregateRow struct {
	Key              string    `json:"key"`
	Count            int       `json:"count"`
	PriceMin         int       `json:"price_min"`
	PriceMax         int       `json:"price_max"`
	PriceMean        float64   `json:"price_mean"`
	PricePerAreaMean float64   `json:"price_per_area_mean"`
	AreaMean         float64   `json:"area_mean"`
	LastObservedAt   time.Time `json:"last_observed_at"`
}

// SummaryStats are the dashboard headline numbers for a set of rows.
type SummaryStats struct {
	Count            int       `json:"count"`
	UniqueCount      int       `json:"unique_count"`
	PriceMean        float64   `json:"price_mean"`
	PriceMedian      float64   `json:"price_median"`
	PricePerAreaMean float64   `json:"price_per_area_mean"`
	AreaMean         float64   `json:"area_mean"`
	CondoFeeMean     float64   `json:"condo_fee_mean"`
	LastObservedAt   time.Time `json:"last_observed_at"`
}

// ZoneReport lists the canonical neighborhoods observed in one zone, with the
// number of distinct properties per neighborhood. Used for table curation.
type ZoneReport struct {
	Zone          string         `json:"zone"`
	Neighborhoods map[string]int `json:"neighborhoods"`
}
