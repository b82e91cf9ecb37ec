package formatter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/collections/internal/schema"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMultiFileFormatterSQL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	schemas := testSchemas()

	f := NewMultiFileFormatter(dir, FormatSQL)
	require.NoError(t, f.Format(schemas))

	assert.Equal(t, []string{
		filepath.Join(dir, "_all.sql"),
		filepath.Join(dir, "users.sql"),
		filepath.Join(dir, "tags.sql"),
	}, f.Files(schemas))

	assert.Equal(t, schemas[0].SQL()+"\n"+schemas[1].SQL()+"\n", readFile(t, filepath.Join(dir, "_all.sql")))
	assert.Equal(t, schemas[0].SQL()+"\n", readFile(t, filepath.Join(dir, "users.sql")))
	assert.Equal(t, schemas[1].SQL()+"\n", readFile(t, filepath.Join(dir, "tags.sql")))
}

func TestMultiFileFormatterText(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewMultiFileFormatter(dir, FormatText).Format(testSchemas()))

	overview := readFile(t, filepath.Join(dir, "_overview.txt"))
	assert.Equal(t, "COLLECTIONS OVERVIEW\n"+
		"Each table has a file: <table_name>.txt\n\n"+
		"tags (1 fields)\n"+
		"users (2 fields) (unique: email)\n", overview)

	assert.Contains(t, readFile(t, filepath.Join(dir, "users.txt")), "TABLE users\n")
	assert.NoFileExists(t, filepath.Join(dir, "_all.sql"))
}

func TestMultiFileFormatterMarkdown(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewMultiFileFormatter(dir, FormatMarkdown).Format(testSchemas()))

	overview := readFile(t, filepath.Join(dir, "_overview.md"))
	assert.Contains(t, overview, "# Collections Overview\n")
	assert.Contains(t, overview, "- **users** (2 fields) (unique: email)\n")

	tags := readFile(t, filepath.Join(dir, "tags.md"))
	assert.Contains(t, tags, "## tags\n")
	assert.NotContains(t, tags, "# Collections\n")
}

func TestMultiFileFormatterUnnamedTable(t *testing.T) {
	dir := t.TempDir()
	s := schema.NewSchema()
	s.AddField("note", schema.Text, nil)

	require.NoError(t, NewMultiFileFormatter(dir, FormatSQL).Format([]*schema.Schema{s}))
	assert.FileExists(t, filepath.Join(dir, "unnamed.sql"))
}

func TestMultiFileFormatterInvalidFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")

	err := NewMultiFileFormatter(dir, "yaml").Format(testSchemas())
	require.Error(t, err)
	assert.NoDirExists(t, dir)
}

func TestMultiFileFormatterRejectsUnsafeNames(t *testing.T) {
	named := func(name string) *schema.Schema {
		return schema.NewBuilder().WithTableName(name).WithField("note", schema.Text, nil).Build()
	}

	tests := []struct {
		name    string
		tables  []string
		wantErr error
	}{
		{"parent directory", []string{"../x"}, ErrInvalidFileName},
		{"nested path", []string{"a/b"}, ErrInvalidFileName},
		{"backslash", []string{`a\b`}, ErrInvalidFileName},
		{"dot dot", []string{".."}, ErrInvalidFileName},
		{"duplicate table", []string{"users", "users"}, ErrDuplicateFileName},
		{"clashes with index", []string{"_all"}, ErrDuplicateFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "out")

			var schemas []*schema.Schema
			for _, table := range tt.tables {
				schemas = append(schemas, named(table))
			}

			err := NewMultiFileFormatter(dir, FormatSQL).Format(schemas)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoDirExists(t, dir, "nothing is written when a name is rejected")
			assert.NoFileExists(t, filepath.Join(root, "x.sql"))
		})
	}
}
