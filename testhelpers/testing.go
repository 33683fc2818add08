package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"plmsourcing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the migrations and
// empties the sourcing tables. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	migrator, err := database.NewMigrator(connString, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	_ = migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := database.NewPool(ctx, connString, 8, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, Cleanup: pool.Close}
	db.Truncate(t)
	t.Cleanup(db.Cleanup)
	return db
}

// Truncate removes every row written by the sourcing tables
func (db *TestDB) Truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`TRUNCATE vendor_quotes, product_vendor_links, vendors, products`)
	if err != nil {
		t.Fatalf("Failed to truncate test tables: %v", err)
	}
}

// SeedProduct inserts a product and returns its id
func (db *TestDB) SeedProduct(t *testing.T, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO products (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return id
}

// SeedVendor inserts an active vendor and returns its id
func (db *TestDB) SeedVendor(t *testing.T, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO vendors (id, name, active, created_by, updated_by) VALUES ($1, $2, TRUE, 'test', 'test')`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test vendor: %v", err)
	}
	return id
}
