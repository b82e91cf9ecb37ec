package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/collections/internal/schema"
)

// TextFormatter formats schemas as a compact column listing
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every schema, separated by blank lines
func (f *TextFormatter) Format(schemas []*schema.Schema) error {
	for i, s := range schemas {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}

		if err := f.FormatTable(s); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single schema
func (f *TextFormatter) FormatTable(s *schema.Schema) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TABLE %s\n", s.TableName)
	for _, sf := range schema.SystemFields() {
		fmt.Fprintf(&sb, "  %s: %s (system)\n", sf, sf.Definition())
	}
	for _, field := range s.Fields() {
		fmt.Fprintf(&sb, "  %s\n", formatColumn(field))
	}

	_, err := io.WriteString(f.writer, sb.String())
	return err
}

func formatColumn(field schema.Field) string {
	parts := []string{field.Name + ":", field.Type.String()}

	if field.Options.Unique {
		parts = append(parts, "UNIQUE")
	}
	if field.Options.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if field.Options.HasDefault() {
		parts = append(parts, fmt.Sprintf("DEFAULT %s", *field.Options.Default))
	}

	return strings.Join(parts, " ")
}
