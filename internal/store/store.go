// Package store persists descriptors in a SQLite database.
package store

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/hog"
)

// Record is one stored descriptor.
type Record struct {
	ID         int64
	Path       string
	Page       int
	Width      int
	Height     int
	Params     hog.Params
	Descriptor []float64
	CreatedAt  string
}

// Store wraps the descriptor database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and makes sure the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS descriptors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		page INTEGER NOT NULL DEFAULT 0,
		width INTEGER,
		height INTEGER,
		params TEXT,
		length INTEGER,
		features BLOB,
		created_at TEXT,
		UNIQUE(path, page, width, height, params)
	);
	CREATE INDEX IF NOT EXISTS idx_descriptors_path ON descriptors(path);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, replacing an earlier descriptor of the same page computed
// at the same size with the same parameters. It returns the row id.
func (s *Store) Save(rec Record) (int64, error) {
	params, err := yaml.Marshal(rec.Params)
	if err != nil {
		return 0, err
	}

	stmt, err := s.db.Prepare(`
		INSERT OR REPLACE INTO descriptors (
			path, page, width, height, params, length, features, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("cannot prepare statement for %s: %w", rec.Path, err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(
		rec.Path,
		rec.Page,
		rec.Width,
		rec.Height,
		string(params),
		len(rec.Descriptor),
		EncodeFeatures(rec.Descriptor),
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("cannot insert descriptor for %s: %w", rec.Path, err)
	}

	return res.LastInsertId()
}

// Load returns every descriptor stored for path, ordered by page and id.
func (s *Store) Load(path string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, path, page, width, height, params, length, features, created_at
		FROM descriptors WHERE path = ? ORDER BY page, id`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var params string
		var length int
		var blob []byte
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Page, &rec.Width, &rec.Height,
			&params, &length, &blob, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal([]byte(params), &rec.Params); err != nil {
			return nil, fmt.Errorf("decode params of row %d: %w", rec.ID, err)
		}
		rec.Descriptor, err = DecodeFeatures(blob)
		if err != nil {
			return nil, fmt.Errorf("decode features of row %d: %w", rec.ID, err)
		}
		if len(rec.Descriptor) != length {
			return nil, fmt.Errorf("row %d: stored length %d, decoded %d", rec.ID, length, len(rec.Descriptor))
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored descriptors.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM descriptors").Scan(&n)
	return n, err
}

// EncodeFeatures packs v as little-endian float64 values.
func EncodeFeatures(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return buf
}

// DecodeFeatures reverses EncodeFeatures.
func DecodeFeatures(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("feature blob length %d is not a multiple of 8", len(buf))
	}
	v := make([]float64, len(buf)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return v, nil
}
