package schema

// Builder offers chained construction of a Schema
//
//	s := schema.NewBuilder().
//		WithTableName("users").
//		WithField("name", schema.Char, nil).
//		Build()
type Builder struct {
	schema *Schema
}

// NewBuilder creates a builder around an empty schema
func NewBuilder() *Builder {
	return &Builder{schema: NewSchema()}
}

// WithTableName sets the table name
func (b *Builder) WithTableName(tableName string) *Builder {
	b.schema.TableName = tableName
	return b
}

// WithField adds a field with the same rules as Schema.AddField
func (b *Builder) WithField(name string, fieldType FieldType, opts *FieldOptions) *Builder {
	b.schema.AddField(name, fieldType, opts)
	return b
}

// Build returns the schema
func (b *Builder) Build() *Schema {
	return b.schema
}
