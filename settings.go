package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const signingKeySetting = "jwt_signing_key"

func getSetting(db *sqlx.DB, key string) (string, error) {
	var value string
	err := db.Get(&value, db.Rebind("SELECT value FROM settings WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %q: %w", key, err)
	}
	return value, nil
}

func setSetting(db *sqlx.DB, key, value string) error {
	_, err := db.Exec(db.Rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`), key, value)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// loadSigningKey returns the configured token secret, or the one stored in
// settings, generating and storing a fresh one on first start.
func loadSigningKey(db *sqlx.DB, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	stored, err := getSetting(db, signingKeySetting)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		return []byte(stored), nil
	}

	key, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generating signing key: %w", err)
	}
	if err := setSetting(db, signingKeySetting, key); err != nil {
		return nil, err
	}
	return []byte(key), nil
}
