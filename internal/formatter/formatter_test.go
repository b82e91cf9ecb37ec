package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/collections/internal/schema"
)

func testSchemas() []*schema.Schema {
	unique := schema.NewFieldOptions(true, false, nil)
	required := schema.NewFieldOptions(false, true, schema.WithDefault("0"))

	users := schema.NewBuilder().
		WithTableName("users").
		WithField("email", schema.Char, &unique).
		WithField("age", schema.Integer, &required).
		Build()

	tags := schema.NewBuilder().
		WithTableName("tags").
		WithField("label", schema.Text, nil).
		Build()

	return []*schema.Schema{users, tags}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		format string
		want   Formatter
	}{
		{"", &SQLFormatter{writer: &buf}},
		{FormatSQL, &SQLFormatter{writer: &buf}},
		{FormatText, &TextFormatter{writer: &buf}},
		{FormatMarkdown, &MarkdownFormatter{writer: &buf}},
	}

	for _, tt := range tests {
		f, err := New(tt.format, &buf)
		require.NoError(t, err)
		assert.IsType(t, tt.want, f)
	}

	_, err := New("html", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: html")
}

func TestSQLFormatter(t *testing.T) {
	schemas := testSchemas()

	var buf bytes.Buffer
	require.NoError(t, NewSQLFormatter(&buf).Format(schemas))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, schemas[0].SQL(), lines[0])
	assert.Equal(t, schemas[1].SQL(), lines[1])
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(testSchemas()))

	want := `TABLE users
  id: UUID PRIMARY KEY DEFAULT gen_random_uuid() (system)
  inserted_at: TIMESTAMP without time zone NOT NULL (system)
  updated_at: TIMESTAMP without time zone NOT NULL (system)
  email: VARCHAR(255) UNIQUE
  age: BIGINT NOT NULL DEFAULT 0

TABLE tags
  id: UUID PRIMARY KEY DEFAULT gen_random_uuid() (system)
  inserted_at: TIMESTAMP without time zone NOT NULL (system)
  updated_at: TIMESTAMP without time zone NOT NULL (system)
  label: TEXT
`
	assert.Equal(t, want, buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	schemas := testSchemas()

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(schemas))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Collections\n\n## users\n\n### Columns\n\n"))
	assert.Contains(t, out, "- **id:** UUID PRIMARY KEY DEFAULT gen_random_uuid() _(system)_\n")
	assert.Contains(t, out, "- **email:** VARCHAR(255), UNIQUE\n")
	assert.Contains(t, out, "- **age:** BIGINT, NOT NULL, DEFAULT `0`\n")
	assert.Contains(t, out, "- **label:** TEXT\n")
	assert.Contains(t, out, "### Constraints\n\n- `CONSTRAINT users_email_key UNIQUE (email)`\n")
	assert.Contains(t, out, "```sql\n"+schemas[0].SQL()+"\n```\n")
	assert.Equal(t, 1, strings.Count(out, "### Constraints"), "tags has no unique fields")
}
