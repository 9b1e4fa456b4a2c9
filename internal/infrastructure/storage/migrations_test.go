package storage

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := applyMigrations(db); err != nil {
		t.Fatalf("applyMigrations() error = %v", err)
	}

	// Verify migrations table was created and populated
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count)
	if err != nil {
		t.Fatalf("QueryRow() error = %v", err)
	}
	if count != 3 {
		t.Errorf("migrations count = %d, want 3", count)
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations twice
	if err := applyMigrations(db); err != nil {
		t.Fatalf("first applyMigrations() error = %v", err)
	}
	if err := applyMigrations(db); err != nil {
		t.Fatalf("second applyMigrations() error = %v", err)
	}

	// Verify migrations count is still 3 (not duplicated)
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count)
	if err != nil {
		t.Fatalf("QueryRow() error = %v", err)
	}
	if count != 3 {
		t.Errorf("migrations count = %d after idempotent run, want 3", count)
	}
}

func TestApplyMigrations_TablesAlreadyExist(t *testing.T) {
	db := openTestDB(t)

	// A database whose tables predate the migrations ledger must still
	// migrate cleanly.
	if _, err := db.Exec(createProductsTable); err != nil {
		t.Fatalf("pre-create products error = %v", err)
	}
	if _, err := db.Exec(createSalesTable); err != nil {
		t.Fatalf("pre-create sales error = %v", err)
	}

	if err := applyMigrations(db); err != nil {
		t.Fatalf("applyMigrations() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("QueryRow() error = %v", err)
	}
	if count != 3 {
		t.Errorf("migrations count = %d, want 3", count)
	}
}

func TestProductsTable(t *testing.T) {
	db := openTestDB(t)

	if err := applyMigrations(db); err != nil {
		t.Fatalf("applyMigrations() error = %v", err)
	}

	_, err := db.Exec(`
		INSERT INTO products (id, name, price, created_at, updated_at)
		VALUES ('prod-1', 'Widget', 9.99, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("INSERT products error = %v", err)
	}

	// sync_status defaults to pending, deleted_at to NULL
	var syncStatus string
	var deletedAt sql.NullString
	err = db.QueryRow(`SELECT sync_status, deleted_at FROM products WHERE id = 'prod-1'`).
		Scan(&syncStatus, &deletedAt)
	if err != nil {
		t.Fatalf("SELECT products error = %v", err)
	}
	if syncStatus != "pending" {
		t.Errorf("default sync_status = %q, want %q", syncStatus, "pending")
	}
	if deletedAt.Valid {
		t.Errorf("default deleted_at = %q, want NULL", deletedAt.String)
	}
}

func TestSalesTable_ForeignKey(t *testing.T) {
	db := openTestDB(t)

	if err := applyMigrations(db); err != nil {
		t.Fatalf("applyMigrations() error = %v", err)
	}

	// A sale referencing an unknown product must be rejected.
	_, err := db.Exec(`
		INSERT INTO sales (id, product_id, quantity, total, created_at, updated_at)
		VALUES ('sale-1', 'missing', 1, 9.99, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')
	`)
	if err == nil {
		t.Fatal("INSERT sales with unknown product succeeded, want FK violation")
	}

	// With the product present it must succeed.
	_, err = db.Exec(`
		INSERT INTO products (id, name, price, created_at, updated_at)
		VALUES ('prod-1', 'Widget', 9.99, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("INSERT products error = %v", err)
	}
	_, err = db.Exec(`
		INSERT INTO sales (id, product_id, quantity, total, created_at, updated_at)
		VALUES ('sale-1', 'prod-1', 2, 19.98, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("INSERT sales error = %v", err)
	}
}

func TestSyncIndices(t *testing.T) {
	db := openTestDB(t)

	if err := applyMigrations(db); err != nil {
		t.Fatalf("applyMigrations() error = %v", err)
	}

	want := []string{
		"idx_products_deleted",
		"idx_products_sync_status",
		"idx_sales_deleted",
		"idx_sales_sync_status",
		"idx_sales_product",
	}

	for _, name := range want {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&count)
		if err != nil {
			t.Fatalf("QueryRow() error = %v", err)
		}
		if count != 1 {
			t.Errorf("index %s missing", name)
		}
	}
}
