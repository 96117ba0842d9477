package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path to the single shared database
func DBPath() string {
	return filepath.Join("data", "earthquake-visualizer.db")
}

// Open opens the sqlite database at dbPath, creating its directory if needed.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// EnsureUserSchema ensures that the user-specific tables (saved filter presets) exist.
func EnsureUserSchema(dbPath string) error {
	db, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database to ensure schema: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS saved_filters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			feed_type TEXT NOT NULL,
			min_magnitude REAL NOT NULL,
			max_magnitude REAL NOT NULL,
			start_date INTEGER,
			end_date INTEGER,
			window_days INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_filters_name ON saved_filters(name);
	`)
	if err != nil {
		return fmt.Errorf("creating saved_filters table: %w", err)
	}

	return nil
}

// TableExists reports whether a table is present in the database at dbPath.
// A missing database file counts as a missing table.
func TableExists(dbPath, table string) (bool, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return false, nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return false, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return true, nil
}
