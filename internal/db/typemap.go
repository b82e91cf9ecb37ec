package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/collections/internal/schema"
)

const (
	varcharType = "varchar"
	// maxCharLength is the widest column a Char field holds; wider strings
	// import as Text.
	maxCharLength = 255
)

// postgresTypeName maps verbose information_schema type names to the
// short forms used in DDL.
func postgresTypeName(dataType, udtName string, charMaxLength *int) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%d)", *charMaxLength)
		}
		return varcharType
	case "character":
		if charMaxLength != nil {
			return fmt.Sprintf("char(%d)", *charMaxLength)
		}
		return "char"
	case "ARRAY":
		// udt_name has an underscore prefix for arrays, e.g. "_int4"
		if len(udtName) > 0 && udtName[0] == '_' {
			return normalizeUdtName(udtName[1:]) + "[]"
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "real"
	case "float8":
		return "double precision"
	case "bool":
		return "boolean"
	default:
		return udtName
	}
}

// isSequenceDefault reports whether a column default draws from a sequence,
// as serial and bigserial columns do.
func isSequenceDefault(def string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(def)), "nextval(")
}

func postgresFieldType(typeName string) (schema.FieldType, bool) {
	base, size, sized := splitSize(typeName)

	switch base {
	case "smallint", "integer", "bigint":
		return schema.Integer, true
	case "real", "double precision", "numeric", "money":
		return schema.Double, true
	case varcharType, "char":
		return charOrText(size, sized), true
	case "text", "citext", "name":
		return schema.Text, true
	case "timestamp", "timestamptz":
		return schema.Timestamp, true
	case "date":
		return schema.Date, true
	case "time", "timetz":
		return schema.Time, true
	case "boolean":
		return schema.Boolean, true
	case "json", "jsonb":
		return schema.JSON, true
	case "uuid":
		return schema.UUID, true
	}
	return 0, false
}

// mysqlFieldType maps information_schema data_type plus the full
// column_type, which carries widths such as tinyint(1).
func mysqlFieldType(dataType, columnType string) (schema.FieldType, bool) {
	columnType = strings.ToLower(columnType)
	_, size, sized := splitSize(strings.TrimSuffix(columnType, " unsigned"))

	switch strings.ToLower(dataType) {
	case "tinyint":
		if sized && size == 1 {
			return schema.Boolean, true
		}
		return schema.Integer, true
	case "smallint", "mediumint", "int", "integer", "bigint", "year":
		return schema.Integer, true
	case "float", "double", "decimal", "numeric", "real":
		return schema.Double, true
	case "bool", "boolean", "bit":
		return schema.Boolean, true
	case "varchar", "char":
		return charOrText(size, sized), true
	case "tinytext", "text", "mediumtext", "longtext", "enum", "set":
		return schema.Text, true
	case "datetime", "timestamp":
		return schema.Timestamp, true
	case "date":
		return schema.Date, true
	case "time":
		return schema.Time, true
	case "json":
		return schema.JSON, true
	}
	return 0, false
}

// sqliteFieldType follows SQLite's column affinity rules, checking the more
// specific declared names first.
func sqliteFieldType(declared string) (schema.FieldType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(declared))
	_, size, sized := splitSize(upper)

	switch {
	case upper == "":
		return 0, false
	case strings.Contains(upper, "BOOL"):
		return schema.Boolean, true
	case strings.Contains(upper, "UUID"):
		return schema.UUID, true
	case strings.Contains(upper, "JSON"):
		return schema.JSON, true
	case strings.Contains(upper, "DATETIME"), strings.Contains(upper, "TIMESTAMP"):
		return schema.Timestamp, true
	case strings.Contains(upper, "DATE"):
		return schema.Date, true
	case strings.Contains(upper, "TIME"):
		return schema.Time, true
	case strings.Contains(upper, "INT"):
		return schema.Integer, true
	case strings.Contains(upper, "CHAR"):
		return charOrText(size, sized), true
	case strings.Contains(upper, "CLOB"), strings.Contains(upper, "TEXT"):
		return schema.Text, true
	case strings.Contains(upper, "REAL"), strings.Contains(upper, "FLOA"),
		strings.Contains(upper, "DOUB"), strings.Contains(upper, "NUMERIC"),
		strings.Contains(upper, "DECIMAL"):
		return schema.Double, true
	}
	return 0, false
}

func charOrText(size int, sized bool) schema.FieldType {
	if sized && size <= maxCharLength {
		return schema.Char
	}
	return schema.Text
}

// splitSize splits "varchar(80)" into "varchar" and 80. Types with two
// parameters such as numeric(10,2) report no size.
func splitSize(typeName string) (base string, size int, ok bool) {
	open := strings.Index(typeName, "(")
	if open < 0 || !strings.HasSuffix(typeName, ")") {
		return strings.TrimSpace(typeName), 0, false
	}

	base = strings.TrimSpace(typeName[:open])
	size, err := strconv.Atoi(strings.TrimSpace(typeName[open+1 : len(typeName)-1]))
	if err != nil {
		return base, 0, false
	}
	return base, size, true
}
