// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store materializes the curated dataset into a SQLite table, one
// row per record keyed by a surrogate integer id, and converts it back to
// the document form. The labeling workflow reads rows from here and writes
// edits back keyed by the original capture path.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/irpairs/internal/dataset"
	"github.com/pdiddy/irpairs/pkg/types"
)

var (
	// ErrLookup marks a failure to reach the records table: the database
	// file is missing, cannot be opened, or has no records table.
	ErrLookup = errors.New("records store unavailable")

	// ErrNotFound is returned when no row has the requested original path.
	ErrNotFound = errors.New("record not found")
)

const (
	lockSuffix = ".lock"
	lockRetry  = 50 * time.Millisecond
)

const createTable = `CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY,
	original TEXT,
	processed TEXT,
	time_stamp TEXT,
	feature TEXT,
	shooting_position TEXT,
	wind_dir TEXT,
	wind_scale INTEGER,
	wind_speed INTEGER,
	humidity INTEGER,
	precip REAL,
	pressure INTEGER,
	vis INTEGER,
	cloud INTEGER,
	"AS" REAL,
	"HS" REAL,
	weather TEXT,
	temperature REAL
)`

const recordColumns = `original, processed, time_stamp, feature, shooting_position,
	wind_dir, wind_scale, wind_speed, humidity, precip, pressure,
	vis, cloud, "AS", "HS", weather, temperature`

// Row is a stored record with its surrogate id.
type Row struct {
	ID int64 `json:"id"`
	dataset.Record
}

// Store is an open handle on the records database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Import replaces the database at path with the records of doc. Any
// existing file is removed first. It returns the number of rows written.
func Import(ctx context.Context, path string, doc dataset.Document) (int, error) {
	lock := flock.New(path + lockSuffix)
	if err := acquire(ctx, lock); err != nil {
		return 0, err
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("removing old database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return 0, fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range doc.Records {
		args, err := recordArgs(r)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", r.TimeStamp, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing records: %w", err)
	}
	return len(doc.Records), nil
}

// Open connects to an existing records database. Every failure to reach
// the records table is reported as ErrLookup.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records'`,
	).Scan(&n)
	if err != nil || n == 0 {
		db.Close()
		if err == nil {
			err = errors.New("no records table")
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLookup, path, err)
	}

	return &Store{db: db, path: path, lock: flock.New(path + lockSuffix)}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// All returns every row in id order.
func (s *Store) All(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, `+recordColumns+` FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", ErrLookup, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the row whose original path is original.
func (s *Store) Get(ctx context.Context, original string) (Row, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, `+recordColumns+` FROM records WHERE original = ? ORDER BY id LIMIT 1`, original)
	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, fmt.Errorf("%w: %s", ErrNotFound, original)
	}
	return r, err
}

// Update writes every field of p back to the rows whose original path
// matches p.Original.
func (s *Store) Update(ctx context.Context, p *types.Pair) error {
	if err := acquire(ctx, s.lock); err != nil {
		return err
	}
	defer s.lock.Unlock()

	r := dataset.FromPair(p)
	args, err := recordArgs(r)
	if err != nil {
		return err
	}
	args = append(args, r.Original)

	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET
			original=?, processed=?, time_stamp=?, feature=?, shooting_position=?,
			wind_dir=?, wind_scale=?, wind_speed=?, humidity=?, precip=?, pressure=?,
			vis=?, cloud=?, "AS"=?, "HS"=?, weather=?, temperature=?
		 WHERE original=?`, args...)
	if err != nil {
		return fmt.Errorf("updating %s: %w", r.Original, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s: %w", r.Original, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, r.Original)
	}
	return nil
}

// Export converts the table back into a dataset document, in id order.
func (s *Store) Export(ctx context.Context) (dataset.Document, error) {
	rows, err := s.All(ctx)
	if err != nil {
		return dataset.Document{}, err
	}
	doc := dataset.Document{Records: make([]dataset.Record, len(rows))}
	for i, r := range rows {
		doc.Records[i] = r.Record
	}
	return doc, nil
}

func acquire(ctx context.Context, lock *flock.Flock) error {
	ok, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("locking %s: %w", lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("locking %s: lock not acquired", lock.Path())
	}
	return nil
}

func recordArgs(r dataset.Record) ([]any, error) {
	featureJSON, err := json.Marshal(r.Feature)
	if err != nil {
		return nil, fmt.Errorf("encoding feature: %w", err)
	}
	posJSON, err := json.Marshal(r.ShootingPosition)
	if err != nil {
		return nil, fmt.Errorf("encoding shooting position: %w", err)
	}
	var temp any
	if r.Temperature != nil {
		temp = *r.Temperature
	}
	return []any{
		r.Original, r.Processed, r.TimeStamp,
		string(featureJSON), string(posJSON),
		r.WindDir, r.WindScale, r.WindSpeed, r.Humidity, r.Precip, r.Pressure,
		r.Vis, r.Cloud, r.AS, r.HS, r.Weather, temp,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (Row, error) {
	var (
		r           Row
		original    sql.NullString
		processed   sql.NullString
		timeStamp   sql.NullString
		featureJSON sql.NullString
		posJSON     sql.NullString
		windDir     sql.NullString
		windScale   sql.NullInt64
		windSpeed   sql.NullInt64
		humidity    sql.NullInt64
		precip      sql.NullFloat64
		pressure    sql.NullInt64
		vis         sql.NullInt64
		cloud       sql.NullInt64
		as          sql.NullFloat64
		hs          sql.NullFloat64
		weather     sql.NullString
		temperature sql.NullFloat64
	)
	err := sc.Scan(&r.ID, &original, &processed, &timeStamp, &featureJSON, &posJSON,
		&windDir, &windScale, &windSpeed, &humidity, &precip, &pressure,
		&vis, &cloud, &as, &hs, &weather, &temperature)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Row{}, err
		}
		return Row{}, fmt.Errorf("scanning row: %w", err)
	}

	r.Original = original.String
	r.Processed = processed.String
	r.TimeStamp = timeStamp.String
	if featureJSON.Valid {
		if err := json.Unmarshal([]byte(featureJSON.String), &r.Feature); err != nil {
			return Row{}, fmt.Errorf("row %d: decoding feature: %w", r.ID, err)
		}
	}
	if posJSON.Valid && posJSON.String != "" {
		if err := json.Unmarshal([]byte(posJSON.String), &r.ShootingPosition); err != nil {
			return Row{}, fmt.Errorf("row %d: %w", r.ID, err)
		}
	}
	r.WindDir = windDir.String
	r.WindScale = int(windScale.Int64)
	r.WindSpeed = int(windSpeed.Int64)
	r.Humidity = int(humidity.Int64)
	r.Precip = precip.Float64
	r.Pressure = int(pressure.Int64)
	r.Vis = int(vis.Int64)
	r.Cloud = int(cloud.Int64)
	r.AS = as.Float64
	r.HS = hs.Float64
	r.Weather = weather.String
	if temperature.Valid {
		t := int(temperature.Float64)
		r.Temperature = &t
	}
	return r, nil
}
