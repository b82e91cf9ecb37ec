// Package schema models a table as system fields plus user fields and
// renders it as a PostgreSQL CREATE TABLE statement.
//
// A Schema is a plain accumulator without internal locking. Callers that
// share one across goroutines synchronise access themselves or hand out
// copies made with Clone.
package schema

import (
	"fmt"
	"strings"
)

// Schema describes one table
type Schema struct {
	TableName string
	fields    []Field
}

// NewSchema creates an empty schema with no table name
func NewSchema() *Schema {
	return &Schema{}
}

// AddField appends a user field. Names that collide with a system field are
// dropped without error so that chained building never fails.
func (s *Schema) AddField(name string, fieldType FieldType, opts *FieldOptions) {
	if IsSystemFieldName(name) {
		return
	}

	s.fields = append(s.fields, NewField(name, fieldType, opts))
}

// AddFieldStrict behaves like AddField but reports reserved names
func (s *Schema) AddFieldStrict(name string, fieldType FieldType, opts *FieldOptions) error {
	if IsSystemFieldName(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}

	s.fields = append(s.fields, NewField(name, fieldType, opts))
	return nil
}

// Fields returns the user fields in insertion order
func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// Len returns the number of user fields
func (s *Schema) Len() int {
	return len(s.fields)
}

// Clone returns a deep copy of the schema
func (s *Schema) Clone() *Schema {
	clone := &Schema{
		TableName: s.TableName,
		fields:    make([]Field, len(s.fields)),
	}
	for i, f := range s.fields {
		clone.fields[i] = Field{Name: f.Name, Type: f.Type, Options: f.Options.Clone()}
	}
	return clone
}

// UniqueConstraints returns one UNIQUE constraint clause per unique field, in
// field order.
func (s *Schema) UniqueConstraints() []string {
	var constraints []string
	for _, f := range s.fields {
		if f.Options.Unique {
			constraints = append(constraints, s.uniqueConstraintSQL(f))
		}
	}
	return constraints
}

func (s *Schema) uniqueConstraintSQL(f Field) string {
	return fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", f.ConstraintName(s.TableName), f.Name)
}

// SQL renders the CREATE TABLE statement.
//
// System fields come first, then user fields in insertion order, then the
// unique constraints. A schema without user fields keeps the separator after
// the system fields, which yields "..., );".
func (s *Schema) SQL() string {
	var sb strings.Builder
	var constraints []string

	fmt.Fprintf(&sb, "CREATE TABLE %s (", s.TableName)

	for _, sf := range SystemFields() {
		sb.WriteString(sf.SQL())
		sb.WriteString(", ")
	}

	for i, f := range s.fields {
		sb.WriteString(f.SQL())

		if f.Options.Unique {
			constraints = append(constraints, s.uniqueConstraintSQL(f))
		}

		if i < len(s.fields)-1 {
			sb.WriteString(", ")
		}
	}

	if len(constraints) > 0 {
		sb.WriteString(", ")
		sb.WriteString(strings.Join(constraints, ", "))
	}

	sb.WriteString(");")

	return sb.String()
}

// String implements fmt.Stringer
func (s *Schema) String() string {
	return s.SQL()
}
