package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const postColumns = `
	SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at
	FROM posts p
	JOIN users u ON u.id = p.user_id`

func getPosts(ctx context.Context, db *sqlx.DB) ([]Post, error) {
	posts := []Post{}
	if err := db.SelectContext(ctx, &posts, postColumns+" ORDER BY p.id"); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func getPostsByUser(ctx context.Context, db *sqlx.DB, userID int64) ([]Post, error) {
	posts := []Post{}
	query := db.Rebind(postColumns + " WHERE p.user_id = ? ORDER BY p.id")
	if err := db.SelectContext(ctx, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("listing posts for user %d: %w", userID, err)
	}
	return posts, nil
}

func getPostByID(ctx context.Context, db *sqlx.DB, id int64) (*Post, error) {
	var post Post
	err := db.GetContext(ctx, &post, db.Rebind(postColumns+" WHERE p.id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post %d: %w", id, err)
	}
	return &post, nil
}

func getPostByTitle(ctx context.Context, db *sqlx.DB, title string) (*Post, error) {
	var post Post
	err := db.GetContext(ctx, &post, db.Rebind(postColumns+" WHERE p.title = ?"), title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post by title: %w", err)
	}
	return &post, nil
}

func createPost(ctx context.Context, db *sqlx.DB, userID int64, title, content string) (int64, error) {
	var id int64
	err := db.QueryRowxContext(ctx, db.Rebind(`
		INSERT INTO posts (title, content, user_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`), title, content, userID, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting post: %w", err)
	}
	return id, nil
}

func updatePost(ctx context.Context, db *sqlx.DB, id int64, title, content string) error {
	_, err := db.ExecContext(ctx, db.Rebind(`
		UPDATE posts
		SET title = ?, content = ?
		WHERE id = ?`), title, content, id)
	if err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}
	return nil
}

func deletePost(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, db.Rebind("DELETE FROM posts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	return nil
}
