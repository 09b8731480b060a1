package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/seasonal-baseline/internal/climate"
	"github.com/i474232898/seasonal-baseline/internal/weather"
)

// SQLiteDatasetStore persists uploaded historical observations in SQLite.
// Computed baselines are never stored; they are recomputed on every request.
type SQLiteDatasetStore struct {
	conn *sql.DB
}

// NewSQLiteDatasetStore opens the database at path and initializes the schema.
func NewSQLiteDatasetStore(path string) (*SQLiteDatasetStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	s := &SQLiteDatasetStore{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteDatasetStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteDatasetStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		dropped INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS observations (
		dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		city TEXT NOT NULL,
		ts TEXT NOT NULL,
		temperature REAL NOT NULL,
		season TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (dataset_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_observations_city ON observations(dataset_id, city);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveDataset writes the dataset and its observations in one transaction,
// replacing any dataset with the same ID.
func (s *SQLiteDatasetStore) SaveDataset(ds weather.Dataset) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM observations WHERE dataset_id = ?`, ds.ID); err != nil {
		return fmt.Errorf("clearing observations: %w", err)
	}
	if _, err := tx.Exec(`
	INSERT OR REPLACE INTO datasets (id, name, created_at, dropped)
	VALUES (?, ?, ?, ?)
	`, ds.ID, ds.Name, ds.CreatedAt.UTC().Format(time.RFC3339Nano), ds.Dropped); err != nil {
		return fmt.Errorf("inserting dataset: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO observations (dataset_id, seq, city, ts, temperature, season)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range ds.Observations {
		ts := o.Timestamp.UTC().Format(time.RFC3339Nano)
		if _, err := stmt.Exec(ds.ID, i, o.City, ts, o.Temperature, string(o.Season)); err != nil {
			return fmt.Errorf("inserting observation %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetDataset loads a dataset with all of its observations.
func (s *SQLiteDatasetStore) GetDataset(id string) (weather.Dataset, error) {
	ds, err := s.getHeader(id)
	if err != nil {
		return weather.Dataset{}, err
	}

	rows, err := s.conn.Query(`
	SELECT city, ts, temperature, season
	FROM observations
	WHERE dataset_id = ?
	ORDER BY seq
	`, id)
	if err != nil {
		return weather.Dataset{}, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o      climate.Observation
			tsStr  string
			season string
		)
		if err := rows.Scan(&o.City, &tsStr, &o.Temperature, &season); err != nil {
			return weather.Dataset{}, fmt.Errorf("scanning observation: %w", err)
		}
		o.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return weather.Dataset{}, fmt.Errorf("parsing ts: %w", err)
		}
		o.Season = climate.Season(season)
		ds.Observations = append(ds.Observations, o)
	}
	if err := rows.Err(); err != nil {
		return weather.Dataset{}, err
	}

	ds.Rows = len(ds.Observations)
	ds.Cities = climate.Cities(ds.Observations)
	return ds, nil
}

// ListDatasets returns dataset headers without observations, oldest first.
func (s *SQLiteDatasetStore) ListDatasets() ([]weather.Dataset, error) {
	rows, err := s.conn.Query(`SELECT id FROM datasets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]weather.Dataset, 0, len(ids))
	for _, id := range ids {
		ds, err := s.getHeader(id)
		if err != nil {
			return nil, err
		}
		if err := s.fillSummary(&ds); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func (s *SQLiteDatasetStore) getHeader(id string) (weather.Dataset, error) {
	row := s.conn.QueryRow(`SELECT id, name, created_at, dropped FROM datasets WHERE id = ?`, id)

	var (
		ds        weather.Dataset
		createdAt string
	)
	err := row.Scan(&ds.ID, &ds.Name, &createdAt, &ds.Dropped)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.Dataset{}, ErrNotFound
	}
	if err != nil {
		return weather.Dataset{}, fmt.Errorf("querying dataset: %w", err)
	}

	ds.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return weather.Dataset{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return ds, nil
}

// fillSummary sets Rows and Cities without loading the observations.
func (s *SQLiteDatasetStore) fillSummary(ds *weather.Dataset) error {
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM observations WHERE dataset_id = ?`, ds.ID).Scan(&ds.Rows); err != nil {
		return fmt.Errorf("counting observations: %w", err)
	}

	rows, err := s.conn.Query(`
	SELECT city FROM observations
	WHERE dataset_id = ?
	GROUP BY city
	ORDER BY MIN(seq)
	`, ds.ID)
	if err != nil {
		return fmt.Errorf("listing cities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return err
		}
		ds.Cities = append(ds.Cities, city)
	}
	return rows.Err()
}
