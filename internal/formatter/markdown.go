package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/collections/internal/schema"
)

// MarkdownFormatter formats schemas as markdown documentation
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes a document with one section per schema
func (f *MarkdownFormatter) Format(schemas []*schema.Schema) error {
	if _, err := fmt.Fprint(f.writer, "# Collections\n\n"); err != nil {
		return err
	}

	for _, s := range schemas {
		if err := f.FormatTable(s); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes the section of a single schema (exported for use by
// the multi-file formatter)
func (f *MarkdownFormatter) FormatTable(s *schema.Schema) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", s.TableName)
	sb.WriteString("### Columns\n\n")

	for _, sf := range schema.SystemFields() {
		fmt.Fprintf(&sb, "- **%s:** %s _(system)_\n", sf, sf.Definition())
	}
	for _, field := range s.Fields() {
		constraintStr := formatConstraints(field)
		if constraintStr != "" {
			fmt.Fprintf(&sb, "- **%s:** %s, %s\n", field.Name, field.Type, constraintStr)
		} else {
			fmt.Fprintf(&sb, "- **%s:** %s\n", field.Name, field.Type)
		}
	}
	sb.WriteString("\n")

	if constraints := s.UniqueConstraints(); len(constraints) > 0 {
		sb.WriteString("### Constraints\n\n")
		for _, c := range constraints {
			fmt.Fprintf(&sb, "- `%s`\n", c)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### DDL\n\n```sql\n")
	sb.WriteString(s.SQL())
	sb.WriteString("\n```\n\n")

	_, err := io.WriteString(f.writer, sb.String())
	return err
}

func formatConstraints(field schema.Field) string {
	var constraints []string

	if field.Options.Unique {
		constraints = append(constraints, "UNIQUE")
	}
	if field.Options.NotNull {
		constraints = append(constraints, "NOT NULL")
	}
	if field.Options.HasDefault() {
		constraints = append(constraints, fmt.Sprintf("DEFAULT `%s`", *field.Options.Default))
	}

	return strings.Join(constraints, ", ")
}
