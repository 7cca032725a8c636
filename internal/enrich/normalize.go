package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"quintopanel/server/config"
)

// SentinelNeighborhood is returned for null, empty or whitespace-only
// neighborhood input.
const SentinelNeighborhood = "N/A"

// Enricher turns raw snapshot rows into enriched observations using the
// static neighborhood tables. The tables are read-only, so one Enricher can
// be shared by concurrent readers.
type Enricher struct {
	tables      *config.NeighborhoodTables
	defaultCity string
}

func NewEnricher(tables *config.NeighborhoodTables, defaultCity string) *Enricher {
	return &Enricher{
		tables:      tables,
		defaultCity: defaultCity,
	}
}

// foldKey lowercases a name and strips diacritics so that accented and
// unaccented raw variants share one lookup key ("CONSOLAÇÃO" -> "consolacao").
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Normalize maps a raw neighborhood string to its canonical name.
//
// Empty input returns the "N/A" sentinel. A table miss returns the trimmed
// original string unchanged: the normalization table is curated and
// incomplete by construction, so unknown names pass through rather than fail.
func (e *Enricher) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SentinelNeighborhood
	}

	if canonical, ok := e.tables.Normalization[foldKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Zone classifies a neighborhood into a geographic zone. The input may be raw
// or already canonical; it is re-normalized first so both produce the same
// result. Zones are scanned in the fixed ZoneOrder and the first list
// containing the canonical name wins, which matters because the lists
// overlap. Names found in no list map to "Sem zona".
func (e *Enricher) Zone(neighborhood string) string {
	canonical := e.Normalize(neighborhood)

	for _, zone := range e.tables.ZoneOrder {
		for _, name := range e.tables.Zones[zone] {
			if name == canonical {
				return zone
			}
		}
	}
	return config.ZoneUnmapped
}

var cityCaser = cases.Title(language.BrazilianPortuguese)

// NormalizeCity trims a city name and fixes its casing, falling back to the
// configured default city for legacy rows that carry none.
func (e *Enricher) NormalizeCity(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return e.defaultCity
	}
	return cityCaser.String(strings.ToLower(trimmed))
}
