// Package query applies predicate filters over enriched observations.
package query

import (
	"strings"

	"quintopanel/server/internal/models"
)

// Filter is a conjunction of optional predicates. For the membership fields
// a nil slice means "predicate absent" (everything passes) while a non-nil
// empty slice is an explicit empty selection and matches nothing — the UI's
// "select none" state shows zero rows. Range bounds are inclusive; nil means
// unbounded. Substring matches are case-insensitive.
type Filter struct {
	Neighborhoods []string `json:"neighborhoods" form:"neighborhood"`
	Zones         []string `json:"zones" form:"zone"`
	Types         []string `json:"types" form:"type"`
	Rooms         []int    `json:"rooms" form:"rooms"`

	PriceMin *int `json:"price_min" form:"price_min"`
	PriceMax *int `json:"price_max" form:"price_max"`
	AreaMin  *int `json:"area_min" form:"area_min"`
	AreaMax  *int `json:"area_max" form:"area_max"`

	IDContains           string `json:"id_contains" form:"id"`
	AddressContains      string `json:"address_contains" form:"address"`
	TypeContains         string `json:"type_contains" form:"type_search"`
	NeighborhoodContains string `json:"neighborhood_contains" form:"neighborhood_search"`
	Text                 string `json:"text" form:"q"`
}

// Apply returns the rows matching every predicate of the filter. The input
// slice is never mutated; the result is a fresh slice.
func Apply(rows []models.Observation, f Filter) []models.Observation {
	out := make([]models.Observation, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}

// Matches reports whether one observation passes every predicate.
func (f Filter) Matches(row models.Observation) bool {
	if !memberOf(f.Neighborhoods, row.Neighborhood) {
		return false
	}
	if !memberOf(f.Zones, row.Zone) {
		return false
	}
	if !memberOf(f.Types, row.PropertyType) {
		return false
	}
	if !intMemberOf(f.Rooms, row.Rooms) {
		return false
	}
	if !inRange(row.Price, f.PriceMin, f.PriceMax) {
		return false
	}
	if !inRange(row.Area, f.AreaMin, f.AreaMax) {
		return false
	}
	if !containsFold(row.PropertyID, f.IDContains) {
		return false
	}
	if !containsFold(row.Address, f.AddressContains) {
		return false
	}
	if !containsFold(row.PropertyType, f.TypeContains) {
		return false
	}
	if !containsFold(row.Neighborhood, f.NeighborhoodContains) {
		return false
	}
	return f.matchesText(row)
}

func (f Filter) matchesText(row models.Observation) bool {
	if f.Text == "" {
		return true
	}
	needle := strings.ToLower(f.Text)
	haystacks := []string{
		row.PropertyID, row.Address, row.PropertyType,
		row.Neighborhood, row.Title,
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// memberOf distinguishes a nil set (absent predicate, pass) from an empty
// one (explicit empty selection, fail).
func memberOf(allowed []string, value string) bool {
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

func intMemberOf(allowed []int, value int) bool {
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

func inRange(value int, min, max *int) bool {
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
