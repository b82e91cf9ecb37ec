//go:build integration
// +build integration

package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/collections/internal/definition"
	"github.com/tordrt/collections/internal/schema"
)

// roundTripDefinition covers every field type with the defaults each one
// can carry through a catalog unchanged.
const roundTripDefinition = `table: it_people
fields:
  - name: name
    type: char
    unique: true
    not_null: true
  - name: age
    type: integer
    default: "5"
  - name: score
    type: double
    default: "0.5"
  - name: counter
    type: serial
  - name: bio
    type: text
    default: hi
  - name: seen_at
    type: timestamp
  - name: born
    type: date
    default: "2000-01-01"
  - name: wake
    type: time
  - name: active
    type: boolean
    default: "true"
  - name: meta
    type: json
  - name: ref
    type: uuid
`

// loadSchema builds the single schema described by a YAML definition
func loadSchema(t *testing.T, yaml string) *schema.Schema {
	t.Helper()

	defs, err := definition.Load(strings.NewReader(yaml))
	require.NoError(t, err)
	schemas, err := definition.Schemas(defs)
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	return schemas[0]
}

// verifyTablesExist checks that exactly the expected tables were imported
func verifyTablesExist(t *testing.T, schemas []*schema.Schema, expectedTables []string) {
	t.Helper()

	var names []string
	for _, s := range schemas {
		names = append(names, s.TableName)
	}
	assert.ElementsMatch(t, expectedTables, names)
}

// verifyFields checks the user fields of a table, in order
func verifyFields(t *testing.T, s *schema.Schema, expectedFields []string) {
	t.Helper()

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, expectedFields, names, "fields of %s", s.TableName)
}

// verifyUniqueConstraint checks that a field is marked unique
func verifyUniqueConstraint(t *testing.T, s *schema.Schema, fieldName string) {
	t.Helper()

	for _, f := range s.Fields() {
		if f.Name == fieldName {
			assert.True(t, f.Options.Unique, "expected %s.%s to be unique", s.TableName, fieldName)
			return
		}
	}

	t.Errorf("Field %s not found in table %s", fieldName, s.TableName)
}

// findSchema returns the imported schema of a table
func findSchema(t *testing.T, schemas []*schema.Schema, tableName string) *schema.Schema {
	t.Helper()

	for _, s := range schemas {
		if s.TableName == tableName {
			return s
		}
	}

	t.Fatalf("Table %s not found", tableName)
	return nil
}
