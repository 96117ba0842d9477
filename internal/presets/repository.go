// Package presets persists named filter configurations.
package presets

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SridharX3/Earthquake-Visualizer/internal/database"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// ErrNotFound is returned when no preset has the requested name
var ErrNotFound = errors.New("preset not found")

// Repository handles persistence for saved filter presets
type Repository struct {
	dbPath string
}

// NewRepository creates a preset repository backed by the database at dbPath
func NewRepository(dbPath string) *Repository {
	return &Repository{dbPath: dbPath}
}

func (r *Repository) open() (*sql.DB, error) {
	// Ensure schema exists (safe to call multiple times)
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return nil, err
	}
	return database.Open(r.dbPath)
}

// Save stores a preset, replacing any existing preset with the same name
func (r *Repository) Save(p *models.SavedFilter) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("preset name is required")
	}

	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	query := `
		INSERT INTO saved_filters (name, feed_type, min_magnitude, max_magnitude, start_date, end_date, window_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			feed_type = excluded.feed_type,
			min_magnitude = excluded.min_magnitude,
			max_magnitude = excluded.max_magnitude,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			window_days = excluded.window_days,
			created_at = excluded.created_at
		RETURNING id
	`

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	f := p.Filter
	err = db.QueryRow(query,
		p.Name,
		string(f.FeedType),
		f.MinMagnitude,
		f.MaxMagnitude,
		toMillis(f.StartDate),
		toMillis(f.EndDate),
		p.WindowDays,
		p.CreatedAt.UTC(),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("saving preset: %w", err)
	}

	return nil
}

// List retrieves all saved presets ordered by name
func (r *Repository) List() ([]models.SavedFilter, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(selectColumns + " ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var out []models.SavedFilter
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating presets: %w", err)
	}

	return out, nil
}

// Get retrieves a preset by name
func (r *Repository) Get(name string) (models.SavedFilter, error) {
	db, err := r.open()
	if err != nil {
		return models.SavedFilter{}, err
	}
	defer db.Close()

	p, err := scanPreset(db.QueryRow(selectColumns+" WHERE name = ?", strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedFilter{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return p, err
}

// Delete removes a preset by name
func (r *Repository) Delete(name string) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Exec("DELETE FROM saved_filters WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting preset: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	return nil
}

const selectColumns = `SELECT id, name, feed_type, min_magnitude, max_magnitude, start_date, end_date, window_days, created_at FROM saved_filters`

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(s scanner) (models.SavedFilter, error) {
	var p models.SavedFilter
	var feed string
	var start, end sql.NullInt64

	if err := s.Scan(&p.ID, &p.Name, &feed, &p.Filter.MinMagnitude, &p.Filter.MaxMagnitude,
		&start, &end, &p.WindowDays, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scanning preset: %w", err)
	}

	p.Filter.FeedType = models.FeedType(feed)
	p.Filter.StartDate = fromMillis(start)
	p.Filter.EndDate = fromMillis(end)
	return p, nil
}

func toMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromMillis(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.UnixMilli(n.Int64).UTC()
}
