package migrate_test

import (
	"testing"

	"verbline/internal/db"
	"verbline/internal/migrate"
)

func TestMigrateAppliesAndRecords(t *testing.T) {
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var applied int
	if err := conn.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("read schema_migrations: %v", err)
	}
	if applied == 0 {
		t.Fatal("no migrations recorded")
	}

	// The schema is usable afterwards.
	if _, err := conn.Exec(`INSERT INTO verbs(id,title,state,created_at,updated_at) VALUES ('x','t','captured','2026-01-01T00:00:00Z','2026-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("verbs table missing: %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("first run: %v", err)
	}
	var first int
	if err := conn.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&first); err != nil {
		t.Fatal(err)
	}

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("second run: %v", err)
	}
	var second int
	if err := conn.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&second); err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("rerun changed the record count: %d -> %d", first, second)
	}
}
