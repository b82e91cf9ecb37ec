// Package definition loads table definitions from YAML files and turns them
// into schemas.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/collections/internal/schema"
)

// Definition is the file representation of one table
type Definition struct {
	// Collection is the singular entity name. When Table is empty the table
	// name is derived from it, e.g. "BlogPost" becomes "blog_posts".
	Collection string  `yaml:"collection,omitempty"`
	Table      string  `yaml:"table,omitempty"`
	Fields     []Field `yaml:"fields"`

	// Source is the file the definition was read from, if any
	Source string `yaml:"-"`
}

// Field is the file representation of one user column
type Field struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Unique  bool    `yaml:"unique,omitempty"`
	NotNull bool    `yaml:"not_null,omitempty"`
	Default *string `yaml:"default,omitempty"`
}

// TableName returns the explicit table name or the one derived from the
// collection name.
func (d Definition) TableName() string {
	if d.Table != "" {
		return d.Table
	}
	if d.Collection == "" {
		return ""
	}
	return inflect.Underscore(inflect.Pluralize(d.Collection))
}

// Schema builds the schema described by d. Fields named like a system
// column are dropped, matching Schema.AddField.
func (d Definition) Schema() (*schema.Schema, error) {
	b := schema.NewBuilder().WithTableName(d.TableName())

	for i, f := range d.Fields {
		fieldType, err := schema.ParseFieldType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: field %d (%s): %w", d.label(), i, f.Name, err)
		}

		opts := schema.NewFieldOptions(f.Unique, f.NotNull, f.Default)
		b.WithField(f.Name, fieldType, &opts)
	}

	return b.Build(), nil
}

func (d Definition) label() string {
	name := d.TableName()
	if name == "" {
		name = "<unnamed>"
	}
	if d.Source != "" {
		return d.Source + ": " + name
	}
	return name
}

// FromSchema converts a schema back into its file representation
func FromSchema(s *schema.Schema) Definition {
	d := Definition{Table: s.TableName}

	for _, f := range s.Fields() {
		d.Fields = append(d.Fields, Field{
			Name:    f.Name,
			Type:    f.Type.Name(),
			Unique:  f.Options.Unique,
			NotNull: f.Options.NotNull,
			Default: f.Options.Clone().Default,
		})
	}

	return d
}

// Load reads every YAML document in r. Empty documents are skipped.
func Load(r io.Reader) ([]Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var defs []Definition
	for {
		var d Definition
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode definition %d: %w", len(defs)+1, err)
		}
		if d.Collection == "" && d.Table == "" && len(d.Fields) == 0 {
			continue
		}
		defs = append(defs, d)
	}

	return defs, nil
}

// LoadFile reads the definitions in a single file
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}

	defs, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i := range defs {
		defs[i].Source = path
	}
	return defs, nil
}

// LoadDir reads every *.yaml and *.yml file in dir, in file name order
func LoadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	var defs []Definition
	for _, file := range files {
		fileDefs, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}

	return defs, nil
}

// LoadPaths loads files and directories in the order given
func LoadPaths(paths []string) ([]Definition, error) {
	var defs []Definition
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		var loaded []Definition
		if info.IsDir() {
			loaded, err = LoadDir(path)
		} else {
			loaded, err = LoadFile(path)
		}
		if err != nil {
			return nil, err
		}
		defs = append(defs, loaded...)
	}
	return defs, nil
}

// Schemas builds the schema of every definition
func Schemas(defs []Definition) ([]*schema.Schema, error) {
	schemas := make([]*schema.Schema, 0, len(defs))
	for _, d := range defs {
		s, err := d.Schema()
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// Marshal writes definitions as a multi-document YAML stream
func Marshal(defs []Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	for _, d := range defs {
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("failed to encode definition %s: %w", d.label(), err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
