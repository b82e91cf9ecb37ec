//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/collections/internal/db"
)

func setupSQLite(t *testing.T, ctx context.Context, ddl string) *db.SQLiteImporter {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, ddl)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	client, err := db.NewSQLiteClient(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return db.NewSQLiteImporter(client, nil)
}

func TestSQLiteImport(t *testing.T) {
	ctx := context.Background()
	importer := setupSQLite(t, ctx, `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(50) NOT NULL UNIQUE,
			email TEXT NOT NULL,
			status TEXT DEFAULT 'active',
			active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE products (
			sku INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			price REAL DEFAULT 9.5
		);
		CREATE INDEX idx_category ON products (category);
		CREATE UNIQUE INDEX idx_name_category ON products (name, category);
	`)

	schemas, err := importer.Import(ctx, nil)
	require.NoError(t, err)
	verifyTablesExist(t, schemas, []string{"products", "users"})

	users := findSchema(t, schemas, "users")
	verifyFields(t, users, []string{"username", "email", "status", "active", "created_at"})
	verifyUniqueConstraint(t, users, "username")
	assert.Contains(t, users.SQL(), "username VARCHAR(255) NOT NULL, email TEXT NOT NULL, status TEXT DEFAULT 'active', "+
		"active BOOLEAN DEFAULT true, created_at TIMESTAMP WITHOUT TIME ZONE, CONSTRAINT users_username_key UNIQUE (username));")

	products := findSchema(t, schemas, "products")
	assert.Contains(t, products.SQL(), "sku BIGSERIAL, name TEXT NOT NULL, category TEXT, price DOUBLE PRECISION DEFAULT 9.5);",
		"non-unique and multi-column indexes add no constraints")
}

func TestSQLiteSpecificTables(t *testing.T) {
	ctx := context.Background()
	importer := setupSQLite(t, ctx, `
		CREATE TABLE a (label TEXT);
		CREATE TABLE b (label TEXT);
		CREATE TABLE c (label TEXT);
	`)

	schemas, err := importer.Import(ctx, []string{"a", "c"})
	require.NoError(t, err)
	verifyTablesExist(t, schemas, []string{"a", "c"})

	_, err = importer.Import(ctx, []string{"missing"})
	assert.Error(t, err)
}
