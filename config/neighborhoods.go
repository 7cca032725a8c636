package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Zone names, in classification order. Zone lists are not disjoint (a
// neighborhood may legitimately appear under more than one zone), so the
// classifier's first-match-wins scan depends on this exact ordering.
const (
	ZoneCentro = "Zona Centro"
	ZoneSul    = "Zona Sul"
	ZoneNorte  = "Zona Norte"
	ZoneLeste  = "Zona Leste"
	ZoneOeste  = "Zona Oeste"

	// ZoneUnmapped is returned for neighborhoods absent from every zone list.
	ZoneUnmapped = "Sem zona"
)

// NeighborhoodTables is the static lookup configuration used by the
// enrichment pipeline. It is built once at startup and never mutated, so it
// is safe to share between concurrent readers.
type NeighborhoodTables struct {
	// ZoneOrder fixes the iteration order for zone classification.
	ZoneOrder []string `json:"zone_order"`

	// Zones maps a zone name to its list of canonical neighborhood names.
	Zones map[string][]string `json:"zones"`

	// Normalization maps lowercased, accent-folded raw variants to the
	// canonical neighborhood name.
	Normalization map[string]string `json:"normalization"`

	// Coordinates maps canonical neighborhood names to [lat, lon] used by
	// the heat map. Neighborhoods without an entry are skipped there.
	Coordinates map[string][2]float64 `json:"coordinates"`
}

// DefaultNeighborhoodTables returns the built-in São Paulo tables.
func DefaultNeighborhoodTables() *NeighborhoodTables {
	return &NeighborhoodTables{
		ZoneOrder: []string{ZoneCentro, ZoneSul, ZoneNorte, ZoneLeste, ZoneOeste},
		Zones: map[string][]string{
			ZoneCentro: {
				"Centro", "Consolacao", "Republica", "Bom Retiro", "Bras",
				"Cambuci", "Pari", "Santa Cecilia", "Se", "Tatuape",
			},
			ZoneSul: {
				"Aclimaçao", "Bela Vista", "Cambuci", "Consolacao", "Imirim",
				"Ipiranga", "Jabaquara", "Jardim Paulista", "Parque Jabaquara",
				"Vila Andrade", "Vila Guarani", "Vila Monte Alegre", "Vila Pita",
				"Vila Sonia", "Vila Santa Catarina", "Macedo", "Santo Amaro",
				"Saude", "Cursino", "Congonhas",
			},
			ZoneNorte: {
				"Barra Funda", "Brasilandia", "Cachoeirinha", "Casa Verde",
				"Freguesia do O", "Horto Florestal", "Jacana", "Jaragua", "Perus",
				"Pirituba", "Sao Domingos", "Tremembe", "Tucuruvi", "Vila Curuçá",
				"Vila Gilda", "Vila Guilherme", "Vila Mariana", "Vila Medeiros",
				"Vila Nova Cachoeirinha",
			},
			ZoneLeste: {
				"Agua Rasa", "Analia Franco", "Artur Alvim", "Belem", "Bras",
				"Carrao", "Cidade Patriarca", "Ciguera", "Ermelino Matarazzo",
				"Guaianazes", "Itaquera", "Jardim Iguatemi", "Jardim Oriental",
				"Jardim Vila Formosa", "Lajeado", "Maia", "Mooca", "Parque Doria",
				"Penha", "Ponte Rasa", "Sapopemba", "Sao Lucas", "Sao Mateus",
				"Tatuape", "Terra da Esperança", "Parque Marajoara", "Vila Carbone",
				"Vila Curuçá", "Vila Futura", "Vila Matilde", "Vila Re",
			},
			ZoneOeste: {
				"Alto da Lapa", "Alto de Pinheiros", "Anhanguera", "Bairro da Esperança",
				"Bom Retiro", "Butanta", "Cotia", "Jaguare", "Jardim Paulista", "Lapa",
				"Perdizes", "Pinheiros", "Pompeia", "Raposo Tavares", "Santo Amaro",
				"Sao Conrado", "Vila Leopoldina", "Vila Mariana", "Vila Madalena",
				"Vila Sonia", "Morumbi", "Rio Pequeno", "Previdencia", "Vila Mineira",
			},
		},
		Normalization: map[string]string{
			"vila guarani (z sul)":    "Vila Guarani",
			"vila guarani (zona sul)": "Vila Guarani",
			"vila guarani":            "Vila Guarani",
			"consolacao":              "Consolacao",
			"bela vista":              "Bela Vista",
			"jardim oriental":         "Jardim Oriental",
			"jabaquara":               "Jabaquara",
			"vila monte alegre":       "Vila Monte Alegre",
			"tatuape":                 "Tatuape",
			"parque jabaquara":        "Parque Jabaquara",
			"vila pita":               "Vila Pita",
			"vila sonia":              "Vila Sonia",
			"vila santa catarina":     "Vila Santa Catarina",
			"vila andrade":            "Vila Andrade",
			"jardim vila formosa":     "Jardim Vila Formosa",
			"maranhao":                "Maranhao",
			"cidade antonio estevao":  "Cidade Antonio Estevao",
			"conjunto residencial i":  "Conjunto Residencial I",
		},
		Coordinates: map[string][2]float64{
			"Centro":              {-23.5475, -46.6361},
			"Consolacao":          {-23.5531, -46.6603},
			"Republica":           {-23.5430, -46.6424},
			"Bela Vista":          {-23.5614, -46.6457},
			"Santa Cecilia":       {-23.5357, -46.6490},
			"Jabaquara":           {-23.6443, -46.6434},
			"Parque Jabaquara":    {-23.6547, -46.6413},
			"Vila Guarani":        {-23.6335, -46.6246},
			"Vila Monte Alegre":   {-23.6286, -46.6316},
			"Vila Santa Catarina": {-23.6536, -46.6587},
			"Vila Andrade":        {-23.6321, -46.7291},
			"Vila Sonia":          {-23.5962, -46.7367},
			"Jardim Paulista":     {-23.5665, -46.6642},
			"Jardim Oriental":     {-23.6392, -46.6320},
			"Ipiranga":            {-23.5921, -46.6103},
			"Santo Amaro":         {-23.6546, -46.7104},
			"Saude":               {-23.6190, -46.6378},
			"Tatuape":             {-23.5408, -46.5763},
			"Mooca":               {-23.5505, -46.5986},
			"Penha":               {-23.5270, -46.5421},
			"Itaquera":            {-23.5399, -46.4555},
			"Vila Mariana":        {-23.5880, -46.6349},
			"Pinheiros":           {-23.5617, -46.7021},
			"Vila Madalena":       {-23.5544, -46.6896},
			"Perdizes":            {-23.5370, -46.6780},
			"Lapa":                {-23.5280, -46.7047},
			"Butanta":             {-23.5714, -46.7222},
			"Morumbi":             {-23.6183, -46.7004},
			"Tucuruvi":            {-23.4795, -46.6031},
			"Casa Verde":          {-23.5070, -46.6584},
		},
	}
}

// LoadNeighborhoodTables reads a JSON override file. An empty path returns
// the built-in tables.
func LoadNeighborhoodTables(path string) (*NeighborhoodTables, error) {
	if path == "" {
		return DefaultNeighborhoodTables(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read neighborhood tables: %v", err)
	}

	var tables NeighborhoodTables
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse neighborhood tables: %v", err)
	}

	if len(tables.ZoneOrder) == 0 {
		return nil, fmt.Errorf("neighborhood tables missing zone_order")
	}
	for _, zone := range tables.ZoneOrder {
		if _, ok := tables.Zones[zone]; !ok {
			return nil, fmt.Errorf("zone %q listed in zone_order but has no neighborhood list", zone)
		}
	}
	if tables.Normalization == nil {
		tables.Normalization = map[string]string{}
	}
	if tables.Coordinates == nil {
		tables.Coordinates = map[string][2]float64{}
	}

	return &tables, nil
}

// ZoneNames returns the configured zone names in classification order.
func (t *NeighborhoodTables) ZoneNames() []string {
	names := make([]string, len(t.ZoneOrder))
	copy(names, t.ZoneOrder)
	return names
}
