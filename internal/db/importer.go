// Package db reads table layouts from live database catalogs and converts
// them into schemas. It never executes the statements the schemas render.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tordrt/collections/internal/schema"
)

// ErrUnsupportedURL is returned for database URLs without a known scheme
var ErrUnsupportedURL = errors.New("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")

// Database kinds returned by ParseDatabaseURL
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Importer converts catalog tables into schemas
type Importer interface {
	// Import returns one schema per table, in table order. An empty tables
	// list imports every base table ordered by name.
	Import(ctx context.Context, tables []string) ([]*schema.Schema, error)
}

var (
	_ Importer = (*PostgresImporter)(nil)
	_ Importer = (*MySQLImporter)(nil)
	_ Importer = (*SQLiteImporter)(nil)
)

// catalogColumn is one column as read from a database catalog
type catalogColumn struct {
	Name          string
	Type          string
	DataType      string // bare catalog type when Type carries more detail
	NotNull       bool
	Default       *string
	Unique        bool
	AutoIncrement bool
}

type catalog interface {
	tableNames(ctx context.Context) ([]string, error)
	columns(ctx context.Context, tableName string) ([]catalogColumn, error)
	fieldType(col catalogColumn) (schema.FieldType, bool)
}

func importTables(ctx context.Context, c catalog, requested []string, logger *slog.Logger) ([]*schema.Schema, error) {
	tableNames := requested
	if len(tableNames) == 0 {
		var err error
		tableNames, err = c.tableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	schemas := make([]*schema.Schema, 0, len(tableNames))
	for _, tableName := range tableNames {
		cols, err := c.columns(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to import table %s: %w", tableName, err)
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("failed to import table %s: table not found or has no columns", tableName)
		}
		schemas = append(schemas, buildSchema(tableName, cols, c.fieldType, logger))
	}

	return schemas, nil
}

// buildSchema maps catalog columns onto a schema. System columns are dropped
// by Schema.AddField.
func buildSchema(tableName string, cols []catalogColumn, mapType func(catalogColumn) (schema.FieldType, bool), logger *slog.Logger) *schema.Schema {
	b := schema.NewBuilder().WithTableName(tableName)

	for _, col := range cols {
		if schema.IsSystemFieldName(col.Name) {
			logger.Debug("skipping system column", "table", tableName, "column", col.Name)
			continue
		}

		fieldType, ok := mapType(col)
		if !ok {
			logger.Warn("unsupported column type, importing as text",
				"table", tableName, "column", col.Name, "type", col.Type)
			fieldType = schema.Text
		}

		if col.AutoIncrement && fieldType == schema.Integer {
			fieldType = schema.Serial
		}

		// BIGSERIAL is NOT NULL on its own
		notNull := col.NotNull && fieldType != schema.Serial
		opts := schema.NewFieldOptions(col.Unique, notNull, nil)
		if col.Default != nil && fieldType != schema.Serial {
			literal, kind := normalizeDefault(*col.Default)
			switch kind {
			case defaultLiteral:
				if fieldType == schema.Boolean {
					literal = booleanLiteral(literal)
				}
				opts.Default = &literal
			case defaultExpression:
				logger.Warn("dropping non-literal default",
					"table", tableName, "column", col.Name, "default", *col.Default)
			}
		}

		b.WithField(col.Name, fieldType, &opts)
	}

	return b.Build()
}

type defaultKind int

const (
	defaultNull defaultKind = iota
	defaultLiteral
	defaultExpression
)

// normalizeDefault reduces a catalog default to the literal it holds.
// Quoted strings lose their quotes and casts ('a'::text becomes a), bare
// numbers and booleans are kept, NULL means no default and anything else is
// an expression.
func normalizeDefault(raw string) (string, defaultKind) {
	s := strings.TrimSpace(raw)
	for len(s) > 1 && s[0] == '(' && s[len(s)-1] == ')' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	if strings.HasPrefix(s, "'") {
		literal, rest, ok := unquote(s)
		if ok && (rest == "" || strings.HasPrefix(rest, "::")) {
			return literal, defaultLiteral
		}
		return "", defaultExpression
	}

	if i := strings.Index(s, "::"); i > 0 {
		s = s[:i]
	}

	switch strings.ToLower(s) {
	case "", "null":
		return "", defaultNull
	case "true", "false":
		return strings.ToLower(s), defaultLiteral
	}

	if isNumber(s) {
		return s, defaultLiteral
	}
	return "", defaultExpression
}

// unquote reads a single-quoted SQL string at the start of s and returns the
// unescaped content and whatever follows the closing quote.
func unquote(s string) (literal, rest string, ok bool) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			sb.WriteByte('\'')
			i++
			continue
		}
		return sb.String(), strings.TrimSpace(s[i+1:]), true
	}
	return "", "", false
}

// booleanLiteral turns the 0/1 defaults of MySQL and SQLite into false/true
func booleanLiteral(literal string) string {
	switch literal {
	case "0":
		return "false"
	case "1":
		return "true"
	}
	return literal
}

func isNumber(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if s == "" {
		return false
	}

	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// ParseDatabaseURL detects the database kind and returns the connection
// string its driver expects.
func ParseDatabaseURL(url string) (kind, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return Postgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// the Go MySQL driver takes a DSN without a scheme
		return MySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		return SQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", ErrUnsupportedURL
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
