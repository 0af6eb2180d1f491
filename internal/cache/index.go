// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cache

import (
	"database/sql"
	_ "embed"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/stdlib"
)

//go:embed index_schema.sql
var indexSchemaDDL string

// Entry is one row of cache.index: a snapshot's key, where it lives,
// and when it was written, so Lookup can apply the configurable TTL
// (spec §4.10, default seven days) without touching the .cache file.
type Entry struct {
	Key         Key
	Path        string
	CreatedUnix int64
	SizeBytes   int64
}

// Index is the small sqlite database at <cache_dir>/cache.index that
// maps cache keys to snapshot files (spec §6 "Persisted state
// layout"), grounded on the teacher's stores/sqlite Create/Open
// pattern (embedded schema, foreign_keys pragma, sentinel errors).
type Index struct {
	dir string
	db  *sql.DB
}

// OpenIndex opens (creating if necessary) the cache index database
// under dir.
func OpenIndex(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "cache.index")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("[cache] index: open %q: %v\n", path, err)
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		log.Printf("[cache] index: foreign keys are disabled\n")
		return nil, err
	}
	if _, err := db.Exec(indexSchemaDDL); err != nil {
		_ = db.Close()
		log.Printf("[cache] index: failed to initialize schema: %v\n", err)
		return nil, errors.Join(cerrs.ErrCacheIndexSchema, err)
	}
	return &Index{dir: dir, db: db}, nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error { return idx.db.Close() }

// Lookup returns the entry for key if present and not older than
// ttlDays (a ttlDays of 0 disables expiry), per spec §4.10
// "Invalidation".
func (idx *Index) Lookup(key Key, ttlDays int) (Entry, bool, error) {
	row := idx.db.QueryRow(`SELECT path, created_unix, size_bytes FROM cache_entries WHERE key = ?`, string(key))
	var e Entry
	e.Key = key
	if err := row.Scan(&e.Path, &e.CreatedUnix, &e.SizeBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	if ttlDays > 0 {
		age := time.Now().Unix() - e.CreatedUnix
		if age > int64(ttlDays)*24*60*60 {
			return Entry{}, false, nil
		}
	}
	if _, err := os.Stat(e.Path); err != nil {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put records (or replaces) the entry for e.Key.
func (idx *Index) Put(e Entry) error {
	_, err := idx.db.Exec(
		`INSERT INTO cache_entries (key, path, created_unix, size_bytes) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET path = excluded.path, created_unix = excluded.created_unix, size_bytes = excluded.size_bytes`,
		string(e.Key), e.Path, e.CreatedUnix, e.SizeBytes,
	)
	return err
}

// PruneExpired deletes every entry (and its backing .cache file)
// older than ttlDays, and returns the number of entries removed.
func (idx *Index) PruneExpired(ttlDays int) (int, error) {
	if ttlDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Unix() - int64(ttlDays)*24*60*60
	rows, err := idx.db.Query(`SELECT key, path FROM cache_entries WHERE created_unix < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	var toDelete []string
	for rows.Next() {
		var key, path string
		if err := rows.Scan(&key, &path); err != nil {
			_ = rows.Close()
			return 0, err
		}
		toDelete = append(toDelete, key)
		if ok, _ := stdlib.IsFileExists(path); ok {
			_ = os.Remove(path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	_ = rows.Close()

	for _, key := range toDelete {
		if _, err := idx.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			return 0, err
		}
	}
	return len(toDelete), nil
}
