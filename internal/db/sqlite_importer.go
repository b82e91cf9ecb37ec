package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/collections/internal/schema"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens and pings a database file
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// NewSQLiteClientFromDB wraps an already opened handle
func NewSQLiteClientFromDB(db *sql.DB) *SQLiteClient {
	return &SQLiteClient{db: db}
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// SQLiteImporter reads tables through PRAGMA statements
type SQLiteImporter struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteImporter creates a SQLite importer
func NewSQLiteImporter(client *SQLiteClient, logger *slog.Logger) *SQLiteImporter {
	return &SQLiteImporter{
		db:     client.db,
		logger: loggerOrDefault(logger),
	}
}

// Import implements Importer
func (s *SQLiteImporter) Import(ctx context.Context, tables []string) ([]*schema.Schema, error) {
	return importTables(ctx, s, tables, s.logger)
}

func (s *SQLiteImporter) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
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

func (s *SQLiteImporter) columns(ctx context.Context, tableName string) ([]catalogColumn, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []catalogColumn
	var pkColumns []int

	for rows.Next() {
		var cid, notNull, pk int
		var col catalogColumn
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		col.NotNull = notNull != 0
		if defaultValue.Valid {
			col.Default = &defaultValue.String
		}
		if pk > 0 {
			pkColumns = append(pkColumns, len(columns))
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// only a lone column declared exactly INTEGER PRIMARY KEY aliases the
	// rowid and increments on its own; INT or BIGINT keys do not
	if len(pkColumns) == 1 {
		if col := &columns[pkColumns[0]]; strings.EqualFold(strings.TrimSpace(col.Type), "INTEGER") {
			col.AutoIncrement = true
		}
	}

	unique, err := s.uniqueColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		columns[i].Unique = unique[columns[i].Name]
	}

	return columns, nil
}

// uniqueColumns returns the columns covered alone by a UNIQUE index. Primary
// key indexes are skipped.
func (s *SQLiteImporter) uniqueColumns(ctx context.Context, tableName string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}

	var indexNames []string
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if unique == 1 && origin != "pk" && partial == 0 {
			indexNames = append(indexNames, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make(map[string]bool)
	for _, indexName := range indexNames {
		cols, err := s.indexColumns(ctx, indexName)
		if err != nil {
			return nil, fmt.Errorf("failed to read index %s: %w", indexName, err)
		}
		if len(cols) == 1 {
			result[cols[0]] = true
		}
	}

	return result, nil
}

func (s *SQLiteImporter) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(indexName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString

		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		// expression indexes report a NULL name
		if !name.Valid {
			return nil, nil
		}
		cols = append(cols, name.String)
	}

	return cols, rows.Err()
}

func (s *SQLiteImporter) fieldType(col catalogColumn) (schema.FieldType, bool) {
	return sqliteFieldType(col.Type)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
