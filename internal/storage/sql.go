package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqlSchema = `CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	data       BLOB NOT NULL,
	PRIMARY KEY (collection, key)
)`

// SQLDB wraps a sqlite database holding records for any number of collections.
type SQLDB struct {
	db *sql.DB
}

// OpenSQLite opens or creates a sqlite database file and ensures the schema exists.
func OpenSQLite(path string) (*SQLDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	// sqlite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLDB{db: db}, nil
}

func (d *SQLDB) Close() error {
	return d.db.Close()
}

// Collection returns a Backend scoped to the named collection.
func (d *SQLDB) Collection(name string) *SQLStore {
	return &SQLStore{db: d.db, collection: name}
}

// SQLStore is a Backend over one collection of the records table.
type SQLStore struct {
	db         *sql.DB
	collection string
}

func (s *SQLStore) Exists(key string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE collection = ? AND key = ?`, s.collection, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *SQLStore) Read(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM records WHERE collection = ? AND key = ?`, s.collection, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	return data, nil
}

func (s *SQLStore) Write(key string, data []byte) error {
	_, err := s.db.Exec(`INSERT INTO records (collection, key, data) VALUES (?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE SET data = excluded.data`, s.collection, key, data)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(key string) error {
	res, err := s.db.Exec(`DELETE FROM records WHERE collection = ? AND key = ?`, s.collection, key)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM records WHERE collection = ? ORDER BY key`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
