package ephemeris

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thomaskoefod/cosmicgen/internal/astro"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
	_ "modernc.org/sqlite"
)

// maxInterpolationGap is the widest gap, in days, between two tabulated
// positions that may be interpolated across.
const maxInterpolationGap = 2.0

// DB is a local ephemeris table: tabulated longitudes per body and Julian Day.
type DB struct {
	*sql.DB
}

// OpenDB opens (creating if needed) the ephemeris database at path
func OpenDB(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	d := &DB{db}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return d, nil
}

// initSchema creates the positions table if it doesn't exist
func (db *DB) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS positions (
			body TEXT NOT NULL,
			jd REAL NOT NULL,
			longitude REAL NOT NULL,
			PRIMARY KEY (body, jd)
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// Longitude interpolates the tabulated longitude of body at jd
func (db *DB) Longitude(ctx context.Context, jd float64, body models.Body) (float64, error) {
	jd0, lon0, err := db.neighbour(ctx, body, "jd <= ? ORDER BY jd DESC", jd)
	if err != nil {
		return 0, err
	}
	jd1, lon1, err := db.neighbour(ctx, body, "jd >= ? ORDER BY jd ASC", jd)
	if err != nil {
		return 0, err
	}

	if jd1 == jd0 {
		return astro.Normalize360(lon0), nil
	}
	if jd1-jd0 > maxInterpolationGap {
		return 0, fmt.Errorf("%w: gap of %.1f days at jd %.4f", ErrNoCoverage, jd1-jd0, jd)
	}

	// shortest arc, so 359° -> 1° steps forward across Aries 0°
	delta := astro.Normalize360(lon1 - lon0)
	if delta > 180 {
		delta -= 360
	}
	frac := (jd - jd0) / (jd1 - jd0)
	return astro.Normalize360(lon0 + delta*frac), nil
}

func (db *DB) neighbour(ctx context.Context, body models.Body, where string, jd float64) (float64, float64, error) {
	var rowJD, lon float64
	err := db.QueryRowContext(ctx,
		"SELECT jd, longitude FROM positions WHERE body = ? AND "+where+" LIMIT 1",
		string(body), jd,
	).Scan(&rowJD, &lon)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: %s at jd %.4f", ErrNoCoverage, body, jd)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("querying ephemeris: %w", err)
	}
	return rowJD, lon, nil
}

// Import loads CSV rows of body,jd,longitude, replacing rows with the same
// body and jd. A header row is skipped. It returns the number of rows stored.
func (db *DB) Import(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO positions (body, jd, longitude) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading csv: %w", err)
		}

		body := models.Body(strings.ToLower(strings.TrimSpace(rec[0])))
		jd, jdErr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if jdErr != nil || lonErr != nil {
			if line == 1 {
				continue
			}
			return 0, fmt.Errorf("line %d: invalid number", line)
		}
		if body != models.Sun && body != models.Moon {
			return 0, fmt.Errorf("line %d: unknown body %q", line, rec[0])
		}

		if _, err := stmt.ExecContext(ctx, string(body), jd, astro.Normalize360(lon)); err != nil {
			return 0, fmt.Errorf("inserting position: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return count, nil
}

// Coverage reports the tabulated Julian Day range and row count for body
func (db *DB) Coverage(ctx context.Context, body models.Body) (from, to float64, rows int, err error) {
	var lo, hi sql.NullFloat64
	err = db.QueryRowContext(ctx,
		"SELECT MIN(jd), MAX(jd), COUNT(*) FROM positions WHERE body = ?",
		string(body),
	).Scan(&lo, &hi, &rows)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("querying coverage: %w", err)
	}
	return lo.Float64, hi.Float64, rows, nil
}
