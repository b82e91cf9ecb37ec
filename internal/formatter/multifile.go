package formatter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/collections/internal/schema"
)

// MultiFileFormatter writes each schema to its own file in a directory,
// plus an index file (_all.sql for SQL, _overview otherwise).
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "sql", "text" or "markdown"
	Logger       *slog.Logger
}

// Errors returned by MultiFileFormatter.Format before anything is written
var (
	ErrInvalidFileName   = errors.New("table name cannot be used as a file name")
	ErrDuplicateFileName = errors.New("two tables map to the same file")
)

type tableFormatter interface {
	FormatTable(s *schema.Schema) error
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format implements Formatter
func (f *MultiFileFormatter) Format(schemas []*schema.Schema) error {
	if _, err := New(f.OutputFormat, io.Discard); err != nil {
		return err
	}

	if err := f.checkFileNames(schemas); err != nil {
		return err
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeIndex(schemas); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	for _, s := range schemas {
		if err := f.writeTableFile(s); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", s.TableName, err)
		}
	}

	return nil
}

// checkFileNames keeps every table file inside OutputDir and distinct
func (f *MultiFileFormatter) checkFileNames(schemas []*schema.Schema) error {
	seen := map[string]bool{filepath.Base(f.indexPath()): true}
	for _, s := range schemas {
		name := fileBaseName(s)
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q", ErrInvalidFileName, s.TableName)
		}
		if seen[filepath.Base(f.tablePath(s))] {
			return fmt.Errorf("%w: %q", ErrDuplicateFileName, s.TableName)
		}
		seen[filepath.Base(f.tablePath(s))] = true
	}
	return nil
}

// Files returns the paths Format writes for the given schemas, index first
func (f *MultiFileFormatter) Files(schemas []*schema.Schema) []string {
	files := []string{f.indexPath()}
	for _, s := range schemas {
		files = append(files, f.tablePath(s))
	}
	return files
}

func (f *MultiFileFormatter) writeIndex(schemas []*schema.Schema) error {
	return f.writeFile(f.indexPath(), func(w io.Writer) error {
		switch f.OutputFormat {
		case FormatMarkdown:
			return f.writeMarkdownOverview(w, schemas)
		case FormatText:
			return f.writeTextOverview(w, schemas)
		default:
			return NewSQLFormatter(w).Format(schemas)
		}
	})
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, schemas []*schema.Schema) error {
	var sb strings.Builder

	sb.WriteString("# Collections Overview\n\n")
	fmt.Fprintf(&sb, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
	sb.WriteString("## Tables\n\n")

	for _, s := range sortedByName(schemas) {
		fmt.Fprintf(&sb, "- **%s** (%d fields)", s.TableName, s.Len())
		if unique := uniqueFieldNames(s); len(unique) > 0 {
			fmt.Fprintf(&sb, " (unique: %s)", strings.Join(unique, ", "))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, schemas []*schema.Schema) error {
	var sb strings.Builder

	sb.WriteString("COLLECTIONS OVERVIEW\n")
	fmt.Fprintf(&sb, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())

	for _, s := range sortedByName(schemas) {
		fmt.Fprintf(&sb, "%s (%d fields)", s.TableName, s.Len())
		if unique := uniqueFieldNames(s); len(unique) > 0 {
			fmt.Fprintf(&sb, " (unique: %s)", strings.Join(unique, ","))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeTableFile writes a single schema to its own file
func (f *MultiFileFormatter) writeTableFile(s *schema.Schema) error {
	return f.writeFile(f.tablePath(s), func(w io.Writer) error {
		var tf tableFormatter
		switch f.OutputFormat {
		case FormatMarkdown:
			tf = NewMarkdownFormatter(w)
		case FormatText:
			tf = NewTextFormatter(w)
		default:
			tf = NewSQLFormatter(w)
		}
		return tf.FormatTable(s)
	})
}

func (f *MultiFileFormatter) writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	f.logger().Info("wrote file", "path", path)
	return nil
}

func (f *MultiFileFormatter) indexPath() string {
	if f.OutputFormat == FormatSQL || f.OutputFormat == "" {
		return filepath.Join(f.OutputDir, "_all.sql")
	}
	return filepath.Join(f.OutputDir, "_overview"+f.getFileExtension())
}

func (f *MultiFileFormatter) tablePath(s *schema.Schema) string {
	return filepath.Join(f.OutputDir, fileBaseName(s)+f.getFileExtension())
}

func fileBaseName(s *schema.Schema) string {
	if s.TableName == "" {
		return "unnamed"
	}
	return s.TableName
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".sql"
	}
}

func (f *MultiFileFormatter) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

func sortedByName(schemas []*schema.Schema) []*schema.Schema {
	sorted := make([]*schema.Schema, len(schemas))
	copy(sorted, schemas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TableName < sorted[j].TableName
	})
	return sorted
}

func uniqueFieldNames(s *schema.Schema) []string {
	var names []string
	for _, field := range s.Fields() {
		if field.Options.Unique {
			names = append(names, field.Name)
		}
	}
	return names
}
