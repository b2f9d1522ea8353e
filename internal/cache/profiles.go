package cache

import (
	"database/sql"
	"errors"
	"time"

	"github.com/yakhteh/yakhteh/internal/api"
)

// LatestProfile returns the most recently fetched profile, used to render
// the dashboard before /auth/me answers. The bool reports whether it was
// fetched within ttl; profile is nil on a cache miss.
func (d *DB) LatestProfile(ttl time.Duration) (*api.User, bool, error) {
	row := d.db.QueryRow(`SELECT id, email, full_name, role, is_active, fetched_at
		FROM profiles ORDER BY fetched_at DESC LIMIT 1`)
	return scanProfile(row, ttl)
}

func scanProfile(row *sql.Row, ttl time.Duration) (*api.User, bool, error) {
	var user api.User
	var fullName, role sql.NullString
	var active int
	var fetchedAt int64

	err := row.Scan(&user.ID, &user.Email, &fullName, &role, &active, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	user.FullName = fullName.String
	user.Role = role.String
	user.IsActive = active != 0

	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return &user, isFresh, nil
}

// PutProfile stores a profile.
func (d *DB) PutProfile(user *api.User) error {
	var active int
	if user.IsActive {
		active = 1
	}
	_, err := d.db.Exec(`INSERT OR REPLACE INTO profiles (id, email, full_name, role, is_active, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, nullStr(user.FullName), nullStr(user.Role), active, time.Now().Unix())
	return err
}

// ClearProfiles drops every cached profile. Called on logout so the next
// account does not see the previous one.
func (d *DB) ClearProfiles() error {
	_, err := d.db.Exec(`DELETE FROM profiles`)
	return err
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
