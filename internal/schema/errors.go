package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrReservedName is returned by AddFieldStrict for system column names
	ErrReservedName = errors.New("field name is reserved for a system field")
	// ErrUnknownFieldType is returned when a type name has no FieldType
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrEmptyTableName is reported by Validate
	ErrEmptyTableName = errors.New("table name is empty")
	// ErrNoFields is reported by Validate for a schema without user fields
	ErrNoFields = errors.New("schema has no user fields")
	// ErrEmptyFieldName is reported by Validate
	ErrEmptyFieldName = errors.New("field name is empty")
	// ErrInvalidDefault is reported by Validate when a default literal does not
	// parse as its field type
	ErrInvalidDefault = errors.New("invalid default value")
	// ErrDuplicateConstraint is reported by Validate
	ErrDuplicateConstraint = errors.New("duplicate constraint name")
)

// FieldError ties a validation problem to the field that caused it
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
