package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

func getUserByUsername(ctx context.Context, db *sqlx.DB, username string) (*User, error) {
	var user User
	err := db.GetContext(ctx, &user, db.Rebind(`
		SELECT id, username, password, created_at
		FROM users
		WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return &user, nil
}

func createUser(ctx context.Context, db *sqlx.DB, username, passwordHash string) (int64, error) {
	var id int64
	err := db.QueryRowxContext(ctx, db.Rebind(`
		INSERT INTO users (username, password, created_at)
		VALUES (?, ?, ?)
		RETURNING id`), username, passwordHash, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting user %q: %w", username, err)
	}
	return id, nil
}
