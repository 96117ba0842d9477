// Package basemap provisions and draws the land outline behind the map view.
package basemap

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/SridharX3/Earthquake-Visualizer/internal/database"
)

// DefaultSourceURL is the Natural Earth 1:110m land polygons
const DefaultSourceURL = "https://naciscdn.org/naturalearth/110m/physical/ne_110m_land.zip"

const tableName = "basemap_rings"

var provisionMu sync.Mutex

// NeedsProvisioning checks if the land outline table is missing
func NeedsProvisioning(dbPath string) (bool, error) {
	exists, err := database.TableExists(dbPath, tableName)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Provision downloads the land shapefile from sourceURL and stores its rings in
// the database at dbPath. It does nothing if the table already exists.
// Status lines are sent on progress when it is non-nil.
func Provision(ctx context.Context, dbPath, sourceURL string, progress chan<- string) error {
	provisionMu.Lock()
	defer provisionMu.Unlock()

	needs, err := NeedsProvisioning(dbPath)
	if err != nil {
		return err
	}
	if !needs {
		return nil
	}

	send := func(msg string) {
		if progress == nil {
			return
		}
		select {
		case progress <- msg:
		case <-ctx.Done():
		}
	}

	// Create data directory if it doesn't exist
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	workDir, err := os.MkdirTemp(dataDir, "basemap-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	zipPath := filepath.Join(workDir, "land.zip")
	send("Downloading land outline...")
	if err := downloadFile(ctx, zipPath, sourceURL); err != nil {
		return fmt.Errorf("downloading shapefile: %w", err)
	}

	send("Extracting shapefile...")
	if err := unzipFile(zipPath, workDir); err != nil {
		return fmt.Errorf("extracting shapefile: %w", err)
	}

	shpPath, err := findShapefile(workDir)
	if err != nil {
		return err
	}

	send("Building basemap...")
	count, err := buildDatabase(ctx, shpPath, dbPath)
	if err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	send(fmt.Sprintf("Basemap ready (%d rings)", count))
	return nil
}

// downloadFile downloads a file from a URL to a local path
func downloadFile(ctx context.Context, path, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// unzipFile extracts a zip file to a destination directory
func unzipFile(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	root := filepath.Clean(dest) + string(os.PathSeparator)
	for _, f := range r.File {
		fpath := filepath.Join(dest, f.Name)

		// Check for ZipSlip
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}
		if err := extractFile(f, fpath); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func findShapefile(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found == "" && !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".shp") {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for shapefile: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("no .shp file in archive")
	}
	return found, nil
}

// buildDatabase stores every polygon part of the shapefile as one ring.
// The table is created and filled in a single transaction.
func buildDatabase(ctx context.Context, shapefilePath, dbPath string) (int, error) {
	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return 0, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	// Don't remove the database; it holds other tables
	db, err := database.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE basemap_rings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			feature INTEGER NOT NULL,
			part INTEGER NOT NULL,
			geometry BLOB NOT NULL,
			bbox_min_lat REAL NOT NULL,
			bbox_max_lat REAL NOT NULL,
			bbox_min_lon REAL NOT NULL,
			bbox_max_lon REAL NOT NULL
		);

		CREATE INDEX idx_basemap_bbox ON basemap_rings(
			bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
		);
	`)
	if err != nil {
		return 0, fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO basemap_rings (
			feature, part, geometry,
			bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for shape.Next() {
		n, p := shape.Shape()

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}

		for part, ring := range polygonRings(polygon) {
			data, err := ewkb.Marshal(ring, ewkb.NDR)
			if err != nil {
				return count, fmt.Errorf("encoding ring %d/%d: %w", n, part, err)
			}

			b := ring.Bounds()
			if _, err := stmt.ExecContext(ctx, n, part, data,
				b.Min(1), b.Max(1), b.Min(0), b.Max(0)); err != nil {
				return count, fmt.Errorf("inserting ring %d/%d: %w", n, part, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing basemap: %w", err)
	}
	return count, nil
}

// polygonRings splits a shapefile polygon into one line string per part
func polygonRings(p *shp.Polygon) []*geom.LineString {
	rings := make([]*geom.LineString, 0, len(p.Parts))

	for i := range p.Parts {
		start := int(p.Parts[i])
		end := len(p.Points)
		if i+1 < len(p.Parts) {
			end = int(p.Parts[i+1])
		}
		if end-start < 2 {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for _, pt := range p.Points[start:end] {
			flat = append(flat, pt.X, pt.Y)
		}
		rings = append(rings, geom.NewLineStringFlat(geom.XY, flat).SetSRID(4326))
	}

	return rings
}
