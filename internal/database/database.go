package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"quintopanel/server/internal/models"
)

// Database wraps the sqlite file holding the append-only observation log.
// Rows are only ever inserted (or re-inserted idempotently); the latest view
// is always derived, never stored.
type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS observations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id TEXT NOT NULL,
			observed_at TIMESTAMP,
			raw_neighborhood TEXT,
			neighborhood TEXT,
			zone TEXT,
			property_type TEXT,
			price INTEGER,
			condo_fee INTEGER,
			area INTEGER,
			rooms INTEGER,
			price_per_area REAL,
			address TEXT,
			url TEXT,
			title TEXT,
			city TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (property_id, observed_at)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create observations table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_observations_property
		ON observations(property_id, observed_at);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_observations_neighborhood
		ON observations(neighborhood);
	`)
	if err != nil {
		return err
	}

	return nil
}

// GetAllObservations returns the full log in capture order (log order on
// equal timestamps), which is the order the reconciler expects.
func (d *Database) GetAllObservations() ([]models.Observation, error) {
	rows, err := d.db.Query(`
        SELECT
            property_id,
            COALESCE(observed_at, '') as observed_at,
            raw_neighborhood,
            neighborhood,
            zone,
            property_type,
            price,
            condo_fee,
            area,
            rooms,
            price_per_area,
            address,
            url,
            title,
            city
        FROM observations
        ORDER BY observed_at ASC, id ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var o models.Observation
		var observedAt string
		var rawNeighborhood, neighborhood, zone, propertyType sql.NullString
		var address, url, title, city sql.NullString
		var price, condoFee, area, rooms sql.NullInt64
		var pricePerArea sql.NullFloat64

		err := rows.Scan(
			&o.PropertyID,
			&observedAt,
			&rawNeighborhood,
			&neighborhood,
			&zone,
			&propertyType,
			&price,
			&condoFee,
			&area,
			&rooms,
			&pricePerArea,
			&address,
			&url,
			&title,
			&city,
		)
		if err != nil {
			return nil, err
		}

		// Handle nullable string fields
		if rawNeighborhood.Valid {
			o.RawNeighborhood = rawNeighborhood.String
		}
		if neighborhood.Valid {
			o.Neighborhood = neighborhood.String
		}
		if zone.Valid {
			o.Zone = zone.String
		}
		if propertyType.Valid {
			o.PropertyType = propertyType.String
		}
		if address.Valid {
			o.Address = address.String
		}
		if url.Valid {
			o.URL = url.String
		}
		if title.Valid {
			o.Title = title.String
		}
		if city.Valid {
			o.City = city.String
		}

		// Handle nullable numeric fields
		if price.Valid {
			o.Price = int(price.Int64)
		}
		if condoFee.Valid {
			o.CondoFee = int(condoFee.Int64)
		}
		if area.Valid {
			o.Area = int(area.Int64)
		}
		if rooms.Valid {
			o.Rooms = int(rooms.Int64)
		}
		if pricePerArea.Valid {
			o.PricePerArea = pricePerArea.Float64
		}

		if observedAt != "" {
			if t, err := time.Parse(time.RFC3339, observedAt); err == nil {
				o.ObservedAt = t
			} else if t, err := time.Parse("2006-01-02 15:04:05", observedAt); err == nil {
				o.ObservedAt = t
			}
		}

		observations = append(observations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return observations, nil
}

// CountObservations returns total rows and distinct properties in the log.
func (d *Database) CountObservations() (total int, distinct int, err error) {
	err = d.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT property_id) FROM observations
	`).Scan(&total, &distinct)
	return total, distinct, err
}

// InsertObservations inserts a batch of enriched observations into the log.
// Re-inserting an already-seen (property_id, observed_at) pair replaces the
// row, so loading the same export twice leaves the log unchanged.
func (d *Database) InsertObservations(observations []models.Observation) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO observations
		(property_id, observed_at, raw_neighborhood, neighborhood, zone, property_type,
		 price, condo_fee, area, rooms, price_per_area, address, url, title, city)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range observations {
		var observedAt interface{}
		if !o.ObservedAt.IsZero() {
			observedAt = o.ObservedAt.Format(time.RFC3339)
		}
		_, err = stmt.Exec(
			o.PropertyID,
			observedAt,
			o.RawNeighborhood,
			o.Neighborhood,
			o.Zone,
			o.PropertyType,
			o.Price,
			o.CondoFee,
			o.Area,
			o.Rooms,
			o.PricePerArea,
			o.Address,
			o.URL,
			o.Title,
			o.City,
		)
		if err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}
