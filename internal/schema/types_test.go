package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypeKeywords(t *testing.T) {
	tests := []struct {
		fieldType FieldType
		want      string
	}{
		{Integer, "BIGINT"},
		{Double, "DOUBLE PRECISION"},
		{Serial, "BIGSERIAL"},
		{Char, "VARCHAR(255)"},
		{Text, "TEXT"},
		{Timestamp, "TIMESTAMP WITHOUT TIME ZONE"},
		{Date, "DATE"},
		{Time, "TIME"},
		{Boolean, "BOOLEAN"},
		{JSON, "JSON"},
		{UUID, "UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.fieldType.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fieldType.String())
		})
	}

	assert.Len(t, tests, len(FieldTypes()), "every field type needs a keyword case")
}

func TestFieldTypesAreComplete(t *testing.T) {
	names := make(map[string]bool)
	for _, ft := range FieldTypes() {
		assert.NotEmpty(t, ft.Name(), "field type %d has no name", int(ft))
		assert.NotContains(t, ft.String(), "FieldType(", "field type %d has no keyword", int(ft))
		assert.False(t, names[ft.Name()], "duplicate name %s", ft.Name())
		names[ft.Name()] = true
	}
}

func TestFieldTypeOutOfRange(t *testing.T) {
	ft := FieldType(99)
	assert.Equal(t, "FieldType(99)", ft.String())
	assert.Empty(t, ft.Name())

	_, err := ft.MarshalText()
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes() {
		parsed, err := ParseFieldType(ft.Name())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}

	parsed, err := ParseFieldType("  Timestamp ")
	require.NoError(t, err)
	assert.Equal(t, Timestamp, parsed)

	_, err = ParseFieldType("varchar")
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestFieldTypeText(t *testing.T) {
	text, err := JSON.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "json", string(text))

	var ft FieldType
	require.NoError(t, ft.UnmarshalText([]byte("UUID")))
	assert.Equal(t, UUID, ft)
	assert.Error(t, ft.UnmarshalText([]byte("blob")))
}

func TestUnquotedDefault(t *testing.T) {
	unquoted := map[FieldType]bool{Integer: true, Serial: true, Double: true, Boolean: true}
	for _, ft := range FieldTypes() {
		assert.Equal(t, unquoted[ft], ft.UnquotedDefault(), ft.Name())
	}
	assert.False(t, Boolean.IsNumeric())
}

func TestSystemFields(t *testing.T) {
	tests := []struct {
		field    SystemField
		wantName string
		wantSQL  string
	}{
		{ID, "id", "id UUID PRIMARY KEY DEFAULT gen_random_uuid()"},
		{InsertedAt, "inserted_at", "inserted_at TIMESTAMP without time zone NOT NULL"},
		{UpdatedAt, "updated_at", "updated_at TIMESTAMP without time zone NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.field.String())
			assert.Equal(t, tt.wantSQL, tt.field.SQL())
		})
	}
}

func TestSystemFieldOrder(t *testing.T) {
	// repeated calls yield the same sequence
	for i := 0; i < 2; i++ {
		assert.Equal(t, []SystemField{ID, InsertedAt, UpdatedAt}, SystemFields())
		assert.Equal(t, []string{"id", "inserted_at", "updated_at"}, SystemFieldNames())
	}

	fields := SystemFields()
	fields[0] = UpdatedAt
	assert.Equal(t, ID, SystemFields()[0], "callers must not be able to mutate the order")
}

func TestIsSystemFieldName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"id", true},
		{"ID", true},
		{"  Inserted_At ", true},
		{"UPDATED_AT\t", true},
		{"identifier", false},
		{"inserted", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSystemFieldName(tt.name), "IsSystemFieldName(%q)", tt.name)
	}
}

func TestSystemFieldDefinition(t *testing.T) {
	for _, f := range SystemFields() {
		assert.Equal(t, f.String()+" "+f.Definition(), f.SQL())
	}
	assert.Empty(t, SystemField(7).Definition())
}
