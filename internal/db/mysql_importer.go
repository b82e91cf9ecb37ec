package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/collections/internal/schema"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient opens and pings a MySQL DSN such as
// "user:pass@tcp(localhost:3306)/shop".
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// NewMySQLClientFromDB wraps an already opened handle
func NewMySQLClientFromDB(db *sql.DB) *MySQLClient {
	return &MySQLClient{db: db}
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// ParseDatabaseName extracts the database name from a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("no database name in DSN")
	}
	return cfg.DBName, nil
}

// MySQLImporter reads tables from information_schema of one database
type MySQLImporter struct {
	db         *sql.DB
	schemaName string
	logger     *slog.Logger
}

// NewMySQLImporter creates a MySQL importer
func NewMySQLImporter(client *MySQLClient, schemaName string, logger *slog.Logger) *MySQLImporter {
	return &MySQLImporter{
		db:         client.db,
		schemaName: schemaName,
		logger:     loggerOrDefault(logger),
	}
}

// Import implements Importer
func (m *MySQLImporter) Import(ctx context.Context, tables []string) ([]*schema.Schema, error) {
	return importTables(ctx, m, tables, m.logger)
}

func (m *MySQLImporter) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := m.db.QueryContext(ctx, query, m.schemaName)
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

func (m *MySQLImporter) columns(ctx context.Context, tableName string) ([]catalogColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.extra,
			EXISTS (
				SELECT 1 FROM information_schema.statistics s
				WHERE s.table_schema = c.table_schema
					AND s.table_name = c.table_name
					AND s.column_name = c.column_name
					AND s.non_unique = 0
					AND s.index_name <> 'PRIMARY'
					AND (
						SELECT count(*) FROM information_schema.statistics s2
						WHERE s2.table_schema = s.table_schema
							AND s2.table_name = s.table_name
							AND s2.index_name = s.index_name
					) = 1
			) AS is_unique
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := m.db.QueryContext(ctx, query, m.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []catalogColumn
	for rows.Next() {
		var col catalogColumn
		var dataType, columnType, nullable, extra string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &dataType, &columnType, &nullable, &defaultVal, &extra, &col.Unique); err != nil {
			return nil, err
		}

		col.Type = columnType
		col.DataType = dataType
		col.NotNull = nullable == "NO"
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		if defaultVal.Valid {
			def := mysqlDefault(defaultVal.String, extra)
			col.Default = &def
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (m *MySQLImporter) fieldType(col catalogColumn) (schema.FieldType, bool) {
	return mysqlFieldType(col.DataType, col.Type)
}

// mysqlDefault rewrites a MySQL 8 column_default into SQL literal form.
// MySQL reports string defaults unquoted and flags expression defaults with
// DEFAULT_GENERATED in extra. MariaDB already quotes strings.
func mysqlDefault(raw, extra string) string {
	if strings.Contains(strings.ToUpper(extra), "DEFAULT_GENERATED") {
		return "(" + raw + ")"
	}

	upper := strings.ToUpper(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "'") || upper == "NULL" || strings.HasPrefix(upper, "CURRENT_TIMESTAMP") || isNumber(raw) {
		return raw
	}
	return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
}
