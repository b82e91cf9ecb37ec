package schema

// FieldOptions holds the per-column constraints of a user field
type FieldOptions struct {
	Unique  bool
	NotNull bool
	// Default is the literal rendered after DEFAULT. It is not escaped.
	Default *string
}

// NewFieldOptions creates field options. No validation is performed.
func NewFieldOptions(unique, notNull bool, def *string) FieldOptions {
	return FieldOptions{
		Unique:  unique,
		NotNull: notNull,
		Default: def,
	}
}

// DefaultFieldOptions returns options with every constraint disabled
func DefaultFieldOptions() FieldOptions {
	return NewFieldOptions(false, false, nil)
}

// WithDefault returns a default literal suitable for FieldOptions.Default
func WithDefault(literal string) *string {
	return &literal
}

// HasDefault reports whether a default literal is set
func (o FieldOptions) HasDefault() bool {
	return o.Default != nil
}

// Clone returns a copy that shares no memory with o
func (o FieldOptions) Clone() FieldOptions {
	if o.Default != nil {
		o.Default = WithDefault(*o.Default)
	}
	return o
}

// Field is a user-defined table column
type Field struct {
	Name    string
	Type    FieldType
	Options FieldOptions
}

// NewField creates a field. A nil opts is replaced by DefaultFieldOptions,
// so a field always carries options.
func NewField(name string, fieldType FieldType, opts *FieldOptions) Field {
	options := DefaultFieldOptions()
	if opts != nil {
		options = opts.Clone()
	}

	return Field{
		Name:    name,
		Type:    fieldType,
		Options: options,
	}
}

// SQL renders the column definition, e.g. "age BIGINT NOT NULL DEFAULT 5"
func (f Field) SQL() string {
	sql := f.Name + " " + f.Type.String()

	if f.Options.NotNull {
		sql += " NOT NULL"
	}

	return sql + f.defaultSQL()
}

func (f Field) defaultSQL() string {
	if !f.Options.HasDefault() {
		return ""
	}

	// Embedded quotes are left as-is; callers supply SQL-safe literals.
	if f.Type.UnquotedDefault() {
		return " DEFAULT " + *f.Options.Default
	}
	return " DEFAULT '" + *f.Options.Default + "'"
}

// ConstraintName returns the name of the unique constraint for this field on
// the given table.
func (f Field) ConstraintName(tableName string) string {
	return tableName + "_" + f.Name + "_key"
}
