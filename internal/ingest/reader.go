// Package ingest reads tabular snapshot exports into raw observations. The
// column headers are the canonical interop contract with the scraper's
// spreadsheet output, including the legacy "… de Busca" aliases older
// exports used.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"quintopanel/server/internal/models"
)

// Canonical column headers. Exact strings matter for interop.
const (
	ColID           = "ID Imóvel"
	ColNeighborhood = "Bairro"
	ColType         = "Tipo"
	ColPrice        = "Preço"
	ColCondoFee     = "Condomínio"
	ColArea         = "Área (m²)"
	ColPricePerArea = "Preço/m²"
	ColRooms        = "Quartos"
	ColAddress      = "Endereço"
	ColURL          = "Link"
	ColTitle        = "Título"
	ColObservedAt   = "Data e Hora da Extração"
	ColCity         = "Cidade"

	// Legacy aliases from exports that predate the schema migration.
	ColLegacyNeighborhood = "Bairro de Busca"
	ColLegacyCity         = "Cidade de Busca"
)

// ErrMissingSource marks an absent or empty backing dataset. Callers are
// expected to treat it as "no data yet", not as a pipeline failure.
var ErrMissingSource = errors.New("snapshot source missing or empty")

// ReadSnapshotFile loads a CSV snapshot export from disk. A missing or empty
// file yields ErrMissingSource.
func ReadSnapshotFile(path string) ([]models.RawObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissingSource
		}
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	return ReadSnapshotLog(f)
}

// ReadSnapshotLog parses a CSV snapshot export. The first row must be the
// header; column order is free. Unknown columns are ignored, rows shorter
// than the header are padded with empty cells.
func ReadSnapshotLog(r io.Reader) ([]models.RawObservation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingSource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := newColumnIndex(header)
	if !cols.has(ColID) {
		return nil, fmt.Errorf("snapshot export missing required column %q", ColID)
	}

	var raws []models.RawObservation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot row: %w", err)
		}

		id := cols.get(record, ColID)
		if strings.TrimSpace(id) == "" {
			continue
		}

		raws = append(raws, models.RawObservation{
			PropertyID:   id,
			ObservedAt:   cols.get(record, ColObservedAt),
			Neighborhood: cols.getAliased(record, ColNeighborhood, ColLegacyNeighborhood),
			PropertyType: cols.get(record, ColType),
			Price:        cols.get(record, ColPrice),
			CondoFee:     cols.get(record, ColCondoFee),
			Area:         cols.get(record, ColArea),
			PricePerArea: cols.get(record, ColPricePerArea),
			Rooms:        cols.get(record, ColRooms),
			Address:      cols.get(record, ColAddress),
			URL:          cols.get(record, ColURL),
			Title:        cols.get(record, ColTitle),
			City:         cols.getAliased(record, ColCity, ColLegacyCity),
		})
	}

	if len(raws) == 0 {
		return nil, ErrMissingSource
	}
	return raws, nil
}

type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func (c columnIndex) has(name string) bool {
	_, ok := c[name]
	return ok
}

func (c columnIndex) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// getAliased prefers the current column name and falls back to the legacy
// alias when the current one is absent from the header.
func (c columnIndex) getAliased(record []string, name, legacy string) string {
	if c.has(name) {
		return c.get(record, name)
	}
	return c.get(record, legacy)
}
