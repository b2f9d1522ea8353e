package cache

import (
	"database/sql"
	"errors"
)

// Read implements credstore.Store over the session table.
func (d *DB) Read(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Write implements credstore.Store.
func (d *DB) Write(key, value string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Remove implements credstore.Store. Removing an absent key is a no-op.
func (d *DB) Remove(key string) error {
	_, err := d.db.Exec(`DELETE FROM session WHERE key = ?`, key)
	return err
}
