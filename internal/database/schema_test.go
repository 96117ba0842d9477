package database

import (
	"path/filepath"
	"testing"
)

func TestEnsureUserSchema_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// 1. Initialize schema
	if err := EnsureUserSchema(dbPath); err != nil {
		t.Fatalf("First EnsureUserSchema failed: %v", err)
	}

	// 2. Insert a record
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	_, err = db.Exec(`INSERT INTO saved_filters (name, feed_type, min_magnitude, max_magnitude) VALUES ('big ones', '4.5_day', 6, 10)`)
	db.Close()
	if err != nil {
		t.Fatalf("Failed to insert record: %v", err)
	}

	// 3. Initialize schema again (should not drop table)
	if err := EnsureUserSchema(dbPath); err != nil {
		t.Fatalf("Second EnsureUserSchema failed: %v", err)
	}

	// 4. Verify record exists
	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM saved_filters WHERE name = 'big ones'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query record: %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 record, got %d. Data was likely lost due to table drop.", count)
	}
}

func TestEnsureUserSchema_UniqueName(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := EnsureUserSchema(dbPath); err != nil {
		t.Fatalf("EnsureUserSchema failed: %v", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()

	insert := `INSERT INTO saved_filters (name, feed_type, min_magnitude, max_magnitude) VALUES ('dup', 'all_day', 0, 10)`
	if _, err := db.Exec(insert); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := db.Exec(insert); err == nil {
		t.Error("duplicate name should violate the unique index")
	}
}
