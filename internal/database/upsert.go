package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quintopanel/server/internal/models"
)

// ObservationRow is the gorm mapping of the observations table used by the
// batch ingestion path. The raw-SQL reads in Database and this writer share
// the same schema.
type ObservationRow struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	PropertyID      string `gorm:"column:property_id;uniqueIndex:idx_property_observed"`
	ObservedAt      string `gorm:"column:observed_at;uniqueIndex:idx_property_observed"`
	RawNeighborhood string `gorm:"column:raw_neighborhood"`
	Neighborhood    string
	Zone            string
	PropertyType    string `gorm:"column:property_type"`
	Price           int
	CondoFee        int `gorm:"column:condo_fee"`
	Area            int
	Rooms           int
	PricePerArea    float64 `gorm:"column:price_per_area"`
	Address         string
	URL             string `gorm:"column:url"`
	Title           string
	City            string
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (ObservationRow) TableName() string {
	return "observations"
}

// UpsertObservations writes a batch inside the caller's transaction. Rows
// that collide on (property_id, observed_at) are overwritten, so replaying
// an export is safe.
func UpsertObservations(tx *gorm.DB, batch []*models.Observation) error {
	if len(batch) == 0 {
		return nil
	}

	rows := make([]ObservationRow, 0, len(batch))
	for _, o := range batch {
		var observedAt string
		if !o.ObservedAt.IsZero() {
			observedAt = o.ObservedAt.Format(time.RFC3339)
		}
		rows = append(rows, ObservationRow{
			PropertyID:      o.PropertyID,
			ObservedAt:      observedAt,
			RawNeighborhood: o.RawNeighborhood,
			Neighborhood:    o.Neighborhood,
			Zone:            o.Zone,
			PropertyType:    o.PropertyType,
			Price:           o.Price,
			CondoFee:        o.CondoFee,
			Area:            o.Area,
			Rooms:           o.Rooms,
			PricePerArea:    o.PricePerArea,
			Address:         o.Address,
			URL:             o.URL,
			Title:           o.Title,
			City:            o.City,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "observed_at"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"raw_neighborhood", "neighborhood", "zone", "property_type",
			"price", "condo_fee", "area", "rooms", "price_per_area",
			"address", "url", "title", "city",
		}),
	}).Create(&rows).Error
}
