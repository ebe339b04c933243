package assetc

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// BuildDB records the fingerprint each output was last built from.
type BuildDB struct {
	db *sql.DB
}

// NewBuildDB opens, creating if necessary, the database in file.
func NewBuildDB(file string) (*BuildDB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	// Writes from batch workers are serialised on one connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS output (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, fingerprint TEXT NOT NULL, built INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &BuildDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *BuildDB) Close() error {
	return db.db.Close()
}

// Fingerprint returns the fingerprint output was last built from, or an
// empty string if it has never been built.
func (db *BuildDB) Fingerprint(output string) (string, error) {
	var fingerprint string
	switch err := db.db.QueryRow("SELECT fingerprint FROM output WHERE path = ?", output).Scan(&fingerprint); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return fingerprint, nil
	default:
		return "", err
	}
}

// Record stores the fingerprint output was just built from.
func (db *BuildDB) Record(output, fingerprint string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO output (path, fingerprint, built) VALUES (?, ?, ?)", output, fingerprint, time.Now().Unix()); err != nil {
		return err
	}
	return nil
}

// Forget removes output from the database.
func (db *BuildDB) Forget(output string) error {
	_, err := db.db.Exec("DELETE FROM output WHERE path = ?", output)
	return err
}
