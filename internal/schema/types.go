package schema

import (
	"fmt"
	"strings"
)

// FieldType is the semantic type of a user column
type FieldType int

// Supported field types
const (
	Integer FieldType = iota
	Double
	Serial
	Char
	Text
	Timestamp
	Date
	Time
	Boolean
	JSON
	UUID
)

type fieldTypeInfo struct {
	name    string
	keyword string
}

var fieldTypeInfos = [...]fieldTypeInfo{
	Integer:   {name: "integer", keyword: "BIGINT"},
	Double:    {name: "double", keyword: "DOUBLE PRECISION"},
	Serial:    {name: "serial", keyword: "BIGSERIAL"},
	Char:      {name: "char", keyword: "VARCHAR(255)"},
	Text:      {name: "text", keyword: "TEXT"},
	Timestamp: {name: "timestamp", keyword: "TIMESTAMP WITHOUT TIME ZONE"},
	Date:      {name: "date", keyword: "DATE"},
	Time:      {name: "time", keyword: "TIME"},
	Boolean:   {name: "boolean", keyword: "BOOLEAN"},
	JSON:      {name: "json", keyword: "JSON"},
	UUID:      {name: "uuid", keyword: "UUID"},
}

// FieldTypes returns every supported field type in declaration order
func FieldTypes() []FieldType {
	types := make([]FieldType, len(fieldTypeInfos))
	for i := range fieldTypeInfos {
		types[i] = FieldType(i)
	}
	return types
}

func (t FieldType) valid() bool {
	return t >= 0 && int(t) < len(fieldTypeInfos)
}

// String returns the SQL keyword of the type
func (t FieldType) String() string {
	if !t.valid() {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeInfos[t].keyword
}

// Name returns the lowercase identifier used in definition files
func (t FieldType) Name() string {
	if !t.valid() {
		return ""
	}
	return fieldTypeInfos[t].name
}

// IsNumeric reports whether the type holds numbers
func (t FieldType) IsNumeric() bool {
	return t == Integer || t == Serial || t == Double
}

// UnquotedDefault reports whether default literals of this type are rendered
// without surrounding quotes.
func (t FieldType) UnquotedDefault() bool {
	return t.IsNumeric() || t == Boolean
}

// ParseFieldType resolves a definition-file type name, ignoring case and
// surrounding whitespace.
func ParseFieldType(name string) (FieldType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, info := range fieldTypeInfos {
		if info.name == normalized {
			return FieldType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFieldType, name)
}

// MarshalText implements encoding.TextMarshaler using the definition name
func (t FieldType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFieldType, int(t))
	}
	return []byte(t.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SystemField is one of the columns every table receives automatically
type SystemField int

// System fields, in render order
const (
	ID SystemField = iota
	InsertedAt
	UpdatedAt
)

var systemFieldInfos = [...]fieldTypeInfo{
	ID:         {name: "id", keyword: "UUID PRIMARY KEY DEFAULT gen_random_uuid()"},
	InsertedAt: {name: "inserted_at", keyword: "TIMESTAMP without time zone NOT NULL"},
	UpdatedAt:  {name: "updated_at", keyword: "TIMESTAMP without time zone NOT NULL"},
}

// SystemFields returns the system fields in render order. Each call returns
// a fresh slice.
func SystemFields() []SystemField {
	return []SystemField{ID, InsertedAt, UpdatedAt}
}

// SystemFieldNames returns the reserved column names in render order
func SystemFieldNames() []string {
	fields := SystemFields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.String())
	}
	return names
}

// IsSystemFieldName reports whether name collides with a system field.
// The comparison is case-insensitive and ignores surrounding whitespace.
func IsSystemFieldName(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, reserved := range SystemFieldNames() {
		if reserved == normalized {
			return true
		}
	}
	return false
}

func (f SystemField) String() string {
	if f < 0 || int(f) >= len(systemFieldInfos) {
		return fmt.Sprintf("SystemField(%d)", int(f))
	}
	return systemFieldInfos[f].name
}

// Definition returns the fixed column definition without the name
func (f SystemField) Definition() string {
	if f < 0 || int(f) >= len(systemFieldInfos) {
		return ""
	}
	return systemFieldInfos[f].keyword
}

// SQL returns the full column definition of the system field
func (f SystemField) SQL() string {
	return f.String() + " " + f.Definition()
}
