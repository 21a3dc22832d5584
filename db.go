package epaper

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// FrameDB caches encoded framebuffers keyed by the SHA1 of the source image
// plus the encoding options, so rescanning a directory of mostly unchanged
// dashboards only pays for the images that actually changed.
type FrameDB struct {
	db *sql.DB
}

func NewFrameDB(file string) (*FrameDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id INTEGER PRIMARY KEY NOT NULL, key TEXT NOT NULL UNIQUE, buffer BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &FrameDB{
		db: db,
	}, nil
}

func (db *FrameDB) Close() error {
	return db.db.Close()
}

// Lookup returns the cached framebuffer for key, or nil if there is none.
func (db *FrameDB) Lookup(key string) ([]byte, error) {
	var buffer []byte
	switch err := db.db.QueryRow("SELECT buffer FROM frame WHERE key = ?", key).Scan(&buffer); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return buffer, nil
	default:
		return nil, err
	}
}

// Store saves the framebuffer for key, replacing any previous entry.
func (db *FrameDB) Store(key string, buffer []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO frame (key, buffer) VALUES (?, ?)", key, buffer); err != nil {
		return err
	}
	return nil
}
