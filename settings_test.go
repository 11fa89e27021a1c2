package main

import (
	"testing"
)

func TestGetSetting(t *testing.T) {
	db := setupTestDB(t)

	// Insert a setting
	_, err := db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", "test_key", "test_value")
	if err != nil {
		t.Fatalf("inserting test setting: %v", err)
	}

	value, err := getSetting(db, "test_key")
	if err != nil {
		t.Fatalf("getSetting() error: %v", err)
	}

	if value != "test_value" {
		t.Errorf("expected 'test_value', got '%s'", value)
	}
}

func TestGetSetting_NotFound(t *testing.T) {
	db := setupTestDB(t)

	value, err := getSetting(db, "nonexistent")
	if err != nil {
		t.Fatalf("getSetting() error: %v", err)
	}

	if value != "" {
		t.Errorf("expected empty string for nonexistent key, got '%s'", value)
	}
}

func TestSetSetting_Upsert(t *testing.T) {
	db := setupTestDB(t)

	if err := setSetting(db, "key", "first"); err != nil {
		t.Fatalf("setSetting() error: %v", err)
	}
	if err := setSetting(db, "key", "second"); err != nil {
		t.Fatalf("setSetting() update error: %v", err)
	}

	value, err := getSetting(db, "key")
	if err != nil {
		t.Fatalf("getSetting() error: %v", err)
	}
	if value != "second" {
		t.Errorf("expected 'second', got '%s'", value)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM settings WHERE key = 'key'").Scan(&count); err != nil {
		t.Fatalf("counting settings: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestLoadSigningKey_Configured(t *testing.T) {
	db := setupTestDB(t)

	key, err := loadSigningKey(db, testSecret)
	if err != nil {
		t.Fatalf("loadSigningKey() error: %v", err)
	}
	if string(key) != testSecret {
		t.Errorf("expected configured key, got %q", key)
	}

	stored, _ := getSetting(db, signingKeySetting)
	if stored != "" {
		t.Error("configured key should not be persisted")
	}
}

func TestLoadSigningKey_GeneratedOnce(t *testing.T) {
	db := setupTestDB(t)

	first, err := loadSigningKey(db, "")
	if err != nil {
		t.Fatalf("loadSigningKey() error: %v", err)
	}
	if len(first) < minSigningKeySize {
		t.Errorf("generated key too short: %d bytes", len(first))
	}

	second, err := loadSigningKey(db, "")
	if err != nil {
		t.Fatalf("loadSigningKey() error: %v", err)
	}
	if string(first) != string(second) {
		t.Error("expected the stored key to be reused")
	}
}
