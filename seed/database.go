package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Counts tallies the rows written by LoadSpots or WriteSQL.
type Counts struct {
	Spots int `json:"spots"`
	Media int `json:"media"`
	// The number of spot records skipped because a spot with the same ID already exists.
	Ignored int `json:"ignored"`
}

// Database is a SQLite database containing "spots" and "media" tables.
type Database struct {
	db *sql.DB
}

// OpenDatabase opens (creating it if necessary) the SQLite database at 'path' and ensures that its schema
// is present.
func OpenDatabase(ctx context.Context, path string) (*Database, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("Failed to open database %s, %w", path, err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {

		_, err := db.ExecContext(ctx, pragma)

		if err != nil {
			db.Close()
			return nil, fmt.Errorf("Failed to execute %s, %w", pragma, err)
		}
	}

	_, err = db.ExecContext(ctx, schemaSQL)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to create schema, %w", err)
	}

	d := &Database{
		db: db,
	}

	return d, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// LoadSpots inserts 'spots' and their media entries in a single transaction. Spots whose ID already exists
// are left untouched but their media entries are still added.
func (d *Database) LoadSpots(ctx context.Context, spots [][]byte) (*Counts, error) {

	tx, err := d.db.BeginTx(ctx, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to begin transaction, %w", err)
	}

	defer tx.Rollback()

	spots_stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO spots (id, name, category, type, lat, lng, address, hours, description, thumbnail) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if err != nil {
		return nil, fmt.Errorf("Failed to prepare spots statement, %w", err)
	}

	defer spots_stmt.Close()

	media_stmt, err := tx.PrepareContext(ctx, `INSERT INTO media (type, url, spot_id) VALUES (?, ?, ?)`)

	if err != nil {
		return nil, fmt.Errorf("Failed to prepare media statement, %w", err)
	}

	defer media_stmt.Close()

	counts := new(Counts)

	for _, body := range spots {

		r := NewRow(body)

		logger := slog.Default()
		logger = logger.With("id", r.Id)

		rsp, err := spots_stmt.ExecContext(ctx, r.Id, r.Name, r.Category, r.Type, coordinate(r.Lat), coordinate(r.Lng), r.Address, r.Hours, r.Description, r.Thumbnail)

		if err != nil {
			return nil, fmt.Errorf("Failed to insert spot %s, %w", r.Id, err)
		}

		affected, err := rsp.RowsAffected()

		if err != nil {
			return nil, fmt.Errorf("Failed to determine rows affected for spot %s, %w", r.Id, err)
		}

		if affected == 0 {
			logger.Debug("Spot already exists")
			counts.Ignored += 1
		} else {
			counts.Spots += 1
		}

		for _, m := range r.Media {

			_, err := media_stmt.ExecContext(ctx, m.Type, m.URL, r.Id)

			if err != nil {
				return nil, fmt.Errorf("Failed to insert media for spot %s, %w", r.Id, err)
			}

			counts.Media += 1
		}
	}

	err = tx.Commit()

	if err != nil {
		return nil, fmt.Errorf("Failed to commit transaction, %w", err)
	}

	return counts, nil
}

// Count returns the number of rows in 'table' which must be one of "spots" or "media".
func (d *Database) Count(ctx context.Context, table string) (int, error) {

	var q string

	switch table {
	case "spots":
		q = "SELECT COUNT(id) FROM spots"
	case "media":
		q = "SELECT COUNT(id) FROM media"
	default:
		return 0, fmt.Errorf("Invalid table '%s'", table)
	}

	var count int

	err := d.db.QueryRowContext(ctx, q).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("Failed to count %s, %w", table, err)
	}

	return count, nil
}

func coordinate(r gjson.Result) any {

	v, ok := Coordinate(r)

	if !ok {
		return nil
	}

	return v
}
