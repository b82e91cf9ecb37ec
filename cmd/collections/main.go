package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tordrt/collections"
	"github.com/tordrt/collections/internal/definition"
	"github.com/tordrt/collections/internal/schema"
)

// databaseURLEnv is read when --db-url is not given
const databaseURLEnv = "COLLECTIONS_DATABASE_URL"

var (
	verbose bool

	// render
	outputFile string
	outputDir  string
	format     string
	strict     bool

	// import
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	tables        string
	excludeTables string
	schemaName    string
	importOutput  string
)

var rootCmd = &cobra.Command{
	Use:   "collections",
	Short: "Generate PostgreSQL CREATE TABLE statements for collections",
	Long: `Collections renders PostgreSQL CREATE TABLE statements from YAML collection definitions.
Every table gets an id, inserted_at and updated_at column, followed by the user fields and
one UNIQUE constraint per unique field.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [files or directories...]",
	Short: "Render CREATE TABLE statements from definition files (stdin when none are given)",
	RunE:  runRender,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Write definition files for the tables of an existing database",
	RunE:  runImport,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the supported field types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	renderCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for one file per table")
	renderCmd.Flags().StringVarP(&format, "format", "f", collections.FormatSQL, "Output format: sql, text or markdown")
	renderCmd.Flags().BoolVar(&strict, "strict", false, "Validate schemas before rendering")

	importCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string (default: $"+databaseURLEnv+")")
	importCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	importCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	importCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	importCmd.Flags().StringVarP(&excludeTables, "exclude", "x", "", "Tables to skip (comma-separated, optional)")
	importCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the DSN database for MySQL)")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(renderCmd, importCmd, typesCmd)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runRender(cmd *cobra.Command, args []string) error {
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	schemas, err := loadSchemas(cmd.InOrStdin(), args)
	if err != nil {
		return fmt.Errorf("failed to load definitions: %w", err)
	}

	if strict {
		if err := validateSchemas(schemas); err != nil {
			return err
		}
	}

	if outputDir != "" {
		if err := collections.FormatSchemas(schemas, &collections.OutputOptions{OutputDir: outputDir, Format: format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	return withOutput(cmd.OutOrStdout(), outputFile, func(w io.Writer) error {
		if err := collections.FormatSchemas(schemas, &collections.OutputOptions{Writer: w, Format: format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	})
}

func loadSchemas(stdin io.Reader, paths []string) ([]*schema.Schema, error) {
	var defs []definition.Definition
	var err error

	if len(paths) == 0 {
		defs, err = definition.Load(stdin)
	} else {
		defs, err = definition.LoadPaths(paths)
	}
	if err != nil {
		return nil, err
	}

	return definition.Schemas(defs)
}

func validateSchemas(schemas []*schema.Schema) error {
	var errs []error
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", s.TableName, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid definitions: %w", errors.Join(errs...))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	url, err := importURL()
	if err != nil {
		return err
	}

	schemas, err := collections.ImportSchemas(ctx, url, &collections.ImportOptions{
		Tables:        parseTableList(tables),
		ExcludeTables: parseTableList(excludeTables),
		SchemaName:    schemaName,
		Logger:        slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to import schema: %w", err)
	}

	defs := make([]definition.Definition, len(schemas))
	for i, s := range schemas {
		defs[i] = definition.FromSchema(s)
	}

	data, err := definition.Marshal(defs)
	if err != nil {
		return err
	}

	return withOutput(cmd.OutOrStdout(), importOutput, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// importURL turns the database flags into a single URL
func importURL() (string, error) {
	if dbURL == "" && mysqlURL == "" && sqlitePath == "" {
		dbURL = os.Getenv(databaseURLEnv)
	}

	dbCount := 0
	if dbURL != "" {
		dbCount++
	}
	if mysqlURL != "" {
		dbCount++
	}
	if sqlitePath != "" {
		dbCount++
	}
	if dbCount == 0 {
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case sqlitePath != "":
		return "sqlite://" + sqlitePath, nil
	case mysqlURL != "":
		if strings.HasPrefix(mysqlURL, "mysql://") {
			return mysqlURL, nil
		}
		return "mysql://" + mysqlURL, nil
	default:
		return dbURL, nil
	}
}

func runTypes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPOSTGRESQL")
	for _, ft := range schema.FieldTypes() {
		fmt.Fprintf(w, "%s\t%s\n", ft.Name(), ft)
	}
	return w.Flush()
}

// withOutput runs write against path, or against stdout when path is empty
func withOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close output file", "path", path, "error", err)
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	slog.Info("wrote file", "path", path)
	return nil
}

func parseTableList(list string) []string {
	if list == "" {
		return nil
	}

	var tableList []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tableList = append(tableList, t)
		}
	}
	return tableList
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
