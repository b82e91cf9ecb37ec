package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/collections/internal/schema"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects and pings the server
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// PostgresImporter reads tables from information_schema
type PostgresImporter struct {
	conn   *pgx.Conn
	schema string
	logger *slog.Logger
}

// NewPostgresImporter creates an importer for one PostgreSQL schema
// (usually "public").
func NewPostgresImporter(client *PostgresClient, schemaName string, logger *slog.Logger) *PostgresImporter {
	return &PostgresImporter{
		conn:   client.conn,
		schema: schemaName,
		logger: loggerOrDefault(logger),
	}
}

// Import implements Importer
func (p *PostgresImporter) Import(ctx context.Context, tables []string) ([]*schema.Schema, error) {
	return importTables(ctx, p, tables, p.logger)
}

func (p *PostgresImporter) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := p.conn.Query(ctx, query, p.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// columns reads the columns of a table. A column counts as unique only when
// a UNIQUE constraint covers it alone.
func (p *PostgresImporter) columns(ctx context.Context, tableName string) ([]catalogColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.character_maximum_length,
			c.is_nullable,
			c.column_default,
			EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
					AND tc.table_name = kcu.table_name
				WHERE tc.table_schema = $1
					AND tc.table_name = $2
					AND tc.constraint_type = 'UNIQUE'
					AND kcu.column_name = c.column_name
					AND (
						SELECT count(*) FROM information_schema.key_column_usage k2
						WHERE k2.constraint_name = tc.constraint_name
							AND k2.table_schema = tc.table_schema
					) = 1
			) AS is_unique
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := p.conn.Query(ctx, query, p.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []catalogColumn
	for rows.Next() {
		var col catalogColumn
		var dataType, udtName, nullable string
		var charMaxLength *int

		if err := rows.Scan(&col.Name, &dataType, &udtName, &charMaxLength, &nullable, &col.Default, &col.Unique); err != nil {
			return nil, err
		}

		col.Type = postgresTypeName(dataType, udtName, charMaxLength)
		col.NotNull = nullable == "NO"
		if col.Default != nil && isSequenceDefault(*col.Default) {
			col.AutoIncrement = true
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (p *PostgresImporter) fieldType(col catalogColumn) (schema.FieldType, bool) {
	return postgresFieldType(col.Type)
}
