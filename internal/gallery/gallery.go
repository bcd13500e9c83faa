// Package gallery keeps a catalog of produced stego images in a SQLite
// database, so a user can find which image holds which vault without opening
// any of them. The database can optionally be encrypted with SQLCipher by
// supplying a key.
package gallery

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "github.com/xeodou/go-sqlcipher"
)

// ErrNotFound indicates no record matches the given label.
var ErrNotFound = errors.New("gallery: record not found")

// Record is one cataloged stego image.
type Record struct {
	ID        int64
	Label     string
	Path      string
	SHA256    string
	Width     int
	Height    int
	Capacity  int
	CreatedAt time.Time
}

// Gallery is an open catalog database.
type Gallery struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog at path. An empty key opens
// a plain SQLite file; a non-empty key opens it through SQLCipher.
func Open(path, key string) (*Gallery, error) {
	dsn := "file:" + url.QueryEscape(path) + "?_journal_mode=WAL"
	if key != "" {
		dsn += "&_key=" + url.QueryEscape(key)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open gallery database: %w", err)
	}
	g := &Gallery{db: db}
	if err := g.init(); err != nil {
		db.Close()
		return nil, err
	}
	return g, nil
}

func (g *Gallery) init() error {
	_, err := g.db.Exec(`create table if not exists vaults(
		id integer not null primary key autoincrement,
		label text not null unique,
		path text not null,
		sha256 text not null,
		width integer not null,
		height integer not null,
		capacity integer not null,
		created_at integer not null
	);`)
	if err != nil {
		return fmt.Errorf("failed to initialize gallery schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (g *Gallery) Close() error { return g.db.Close() }

// Add catalogs a stego image and returns its record id. The label must be
// unique within the gallery.
func (g *Gallery) Add(rec Record) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := g.db.Exec(
		`insert into vaults(label, path, sha256, width, height, capacity, created_at) values(?, ?, ?, ?, ?, ?, ?);`,
		rec.Label, rec.Path, rec.SHA256, rec.Width, rec.Height, rec.Capacity, rec.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to add gallery record: %w", err)
	}
	return res.LastInsertId()
}

// Get returns the record with the given label.
func (g *Gallery) Get(label string) (*Record, error) {
	row := g.db.QueryRow(
		`select id, label, path, sha256, width, height, capacity, created_at from vaults where label = ?;`, label)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return rec, err
}

// List returns all records, oldest first.
func (g *Gallery) List() ([]Record, error) {
	rows, err := g.db.Query(
		`select id, label, path, sha256, width, height, capacity, created_at from vaults order by created_at, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Remove deletes the record with the given label.
func (g *Gallery) Remove(label string) error {
	res, err := g.db.Exec(`delete from vaults where label = ?;`, label)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var createdAt int64
	if err := scan(&rec.ID, &rec.Label, &rec.Path, &rec.SHA256, &rec.Width, &rec.Height, &rec.Capacity, &createdAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &rec, nil
}

// ContentHash returns the hex SHA-256 of a stego image's encoded bytes, used
// to detect a cataloged image that was modified (and thus destroyed) after
// the fact.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
