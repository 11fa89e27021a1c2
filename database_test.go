package main

import (
	"context"
	"testing"
)

func TestOpenDB(t *testing.T) {
	db, err := openDB(driverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("openDB() error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("db.Ping() error: %v", err)
	}
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	if _, err := openDB("mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestInitDB(t *testing.T) {
	db := setupTestDB(t)

	// Verify users table exists with correct columns
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('users') WHERE name IN ('id', 'username', 'password', 'created_at')`).Scan(&count)
	if err != nil {
		t.Fatalf("querying users schema: %v", err)
	}
	if count != 4 {
		t.Errorf("users table: expected 4 columns, got %d", count)
	}

	// Verify posts table exists with correct columns
	err = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('posts') WHERE name IN ('id', 'title', 'content', 'user_id', 'created_at')`).Scan(&count)
	if err != nil {
		t.Fatalf("querying posts schema: %v", err)
	}
	if count != 5 {
		t.Errorf("posts table: expected 5 columns, got %d", count)
	}

	// Verify settings table exists
	err = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('settings')`).Scan(&count)
	if err != nil {
		t.Fatalf("querying settings schema: %v", err)
	}
	if count != 2 {
		t.Errorf("settings table: expected 2 columns, got %d", count)
	}
}

func TestInitDB_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := initDB(db); err != nil {
		t.Fatalf("second initDB() error: %v", err)
	}
}

func TestMigrateDB_TitleIndex(t *testing.T) {
	db := setupTestDB(t)

	var unique int
	err := db.QueryRow(`SELECT "unique" FROM pragma_index_list('posts') WHERE name = 'idx_posts_title'`).Scan(&unique)
	if err != nil {
		t.Fatalf("querying posts indexes: %v", err)
	}
	if unique != 1 {
		t.Error("expected idx_posts_title to be unique")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	userID := mustCreateUser(t, db, "alice")
	if _, err := createPost(ctx, db, userID, "same", "one"); err != nil {
		t.Fatalf("createPost() error: %v", err)
	}

	_, err := createPost(ctx, db, userID, "same", "two")
	if err == nil {
		t.Fatal("expected duplicate title insert to fail")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false, want true", err)
	}

	if isUniqueViolation(context.Canceled) {
		t.Error("isUniqueViolation(context.Canceled) = true, want false")
	}
}

func TestSeedDB(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seeded, err := seedDB(ctx, db, "", "")
	if err != nil {
		t.Fatalf("seedDB() error: %v", err)
	}
	if seeded {
		t.Error("expected no seeding without credentials")
	}

	seeded, err = seedDB(ctx, db, "admin", "password")
	if err != nil {
		t.Fatalf("seedDB() error: %v", err)
	}
	if !seeded {
		t.Fatal("expected admin user to be seeded")
	}

	user, err := getUserByUsername(ctx, db, "admin")
	if err != nil {
		t.Fatalf("getUserByUsername() error: %v", err)
	}
	if user == nil || !checkPassword(user.Password, "password") {
		t.Fatal("expected seeded user with hashed password")
	}

	seeded, err = seedDB(ctx, db, "other", "password")
	if err != nil {
		t.Fatalf("seedDB() error: %v", err)
	}
	if seeded {
		t.Error("expected seeding to be skipped once users exist")
	}
}
