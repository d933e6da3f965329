package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"mspro-labs/bean-thinking/internal/models"
)

// Connect opens a connection to the SQLite database and ensures the schema exists.
// It automatically applies recommended settings for concurrency (WAL mode).
func Connect(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// createSchema is private as it's only called by Connect.
func createSchema(db *sql.DB) error {
	// position preserves catalog order, which ranking ties depend on.
	venueTable := `
	CREATE TABLE IF NOT EXISTS venue (
	  name TEXT PRIMARY KEY,
	  position INTEGER NOT NULL,
	  area_code TEXT,
	  roast_level TEXT NOT NULL,
	  flavour_profile TEXT,
	  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_venue_position ON venue(position);
	`
	_, err := db.Exec(venueTable)
	return err
}

// SaveVenues replaces the stored catalog with venues, in order.
func SaveVenues(db *sql.DB, venues []models.Venue) (int64, error) {
	upsertSQL := `
	INSERT INTO venue (name, position, area_code, roast_level, flavour_profile, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
	  position = excluded.position,
	  area_code = excluded.area_code,
	  roast_level = excluded.roast_level,
	  flavour_profile = excluded.flavour_profile,
	  updated_at = CURRENT_TIMESTAMP;
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	// Venues dropped from the source should not linger.
	if _, err := tx.ExecContext(ctx, `DELETE FROM venue`); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to clear venues: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64
	for i, v := range venues {
		res, err := stmt.ExecContext(ctx,
			v.Name,
			i,
			sql.NullString{String: v.AreaCode, Valid: v.AreaCode != ""},
			string(v.RoastLevel),
			v.Profile(),
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to upsert %s: %w", v.Name, err)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return totalAffected, nil
}

// GetVenues returns the stored catalog in its original order.
func GetVenues(db *sql.DB) ([]models.Venue, error) {
	rows, err := db.Query(`
		SELECT name, area_code, roast_level, flavour_profile
		FROM venue
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		var (
			v       models.Venue
			area    sql.NullString
			roast   string
			profile sql.NullString
		)
		if err := rows.Scan(&v.Name, &area, &roast, &profile); err != nil {
			return nil, err
		}
		if v.RoastLevel, err = models.ParseRoastLevel(roast); err != nil {
			return nil, fmt.Errorf("venue %q: %w", v.Name, err)
		}
		v.AreaCode = area.String
		v.Flavours = models.ParseFlavours(profile.String)
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
