// Package formatter writes schemas as SQL, plain text or markdown, to a
// single writer or to one file per table.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/collections/internal/schema"
)

// Output formats
const (
	FormatSQL      = "sql"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Formatter writes a set of schemas
type Formatter interface {
	Format(schemas []*schema.Schema) error
}

// New returns the single-writer formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatSQL, "":
		return NewSQLFormatter(w), nil
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'sql', 'text' or 'markdown')", format)
	}
}

// SQLFormatter writes one CREATE TABLE statement per line
type SQLFormatter struct {
	writer io.Writer
}

// NewSQLFormatter creates a new SQL formatter
func NewSQLFormatter(w io.Writer) *SQLFormatter {
	return &SQLFormatter{writer: w}
}

// Format implements Formatter
func (f *SQLFormatter) Format(schemas []*schema.Schema) error {
	for _, s := range schemas {
		if err := f.FormatTable(s); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes the statement of a single schema
func (f *SQLFormatter) FormatTable(s *schema.Schema) error {
	_, err := fmt.Fprintln(f.writer, s.SQL())
	return err
}
