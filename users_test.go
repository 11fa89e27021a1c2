package main

import (
	"context"
	"testing"
)

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	id, err := createUser(ctx, db, "alice", "hash")
	if err != nil {
		t.Fatalf("createUser() error: %v", err)
	}

	user, err := getUserByUsername(ctx, db, "alice")
	if err != nil {
		t.Fatalf("getUserByUsername() error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != id {
		t.Errorf("expected id %d, got %d", id, user.ID)
	}
	if user.Password != "hash" {
		t.Errorf("expected stored hash, got %q", user.Password)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db := setupTestDB(t)

	user, err := getUserByUsername(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("getUserByUsername() error: %v", err)
	}
	if user != nil {
		t.Error("expected nil user for unknown username")
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := createUser(ctx, db, "alice", "hash"); err != nil {
		t.Fatalf("createUser() error: %v", err)
	}

	_, err := createUser(ctx, db, "alice", "other")
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}
