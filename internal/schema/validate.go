package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	dateLayouts      = []string{"2006-01-02"}
	timeLayouts      = []string{"15:04:05", "15:04", "15:04:05.999999"}
	timestampLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.999999",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
	}
)

// decimalLiteral matches the numeric constants PostgreSQL accepts bare
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// special input strings PostgreSQL accepts for date/time columns
var dateTimeSpecials = map[string]bool{
	"now":       true,
	"today":     true,
	"tomorrow":  true,
	"yesterday": true,
	"epoch":     true,
	"infinity":  true,
	"-infinity": true,
	"allballs":  true,
}

// Validate reports problems that would make the rendered statement invalid
// or surprising. It never changes the schema and SQL does not call it.
func (s *Schema) Validate() error {
	var errs []error

	if strings.TrimSpace(s.TableName) == "" {
		errs = append(errs, ErrEmptyTableName)
	}
	if len(s.fields) == 0 {
		errs = append(errs, ErrNoFields)
	}

	seen := make(map[string]bool)
	for _, f := range s.fields {
		if strings.TrimSpace(f.Name) == "" {
			errs = append(errs, &FieldError{Field: f.Name, Err: ErrEmptyFieldName})
		}

		if err := validateDefault(f); err != nil {
			errs = append(errs, &FieldError{Field: f.Name, Err: err})
		}

		if f.Options.Unique {
			name := f.ConstraintName(s.TableName)
			if seen[name] {
				errs = append(errs, &FieldError{
					Field: f.Name,
					Err:   fmt.Errorf("%w: %s", ErrDuplicateConstraint, name),
				})
			}
			seen[name] = true
		}
	}

	return errors.Join(errs...)
}

func validateDefault(f Field) error {
	if !f.Options.HasDefault() {
		return nil
	}
	literal := *f.Options.Default

	if !f.Type.UnquotedDefault() && strings.Contains(literal, "'") {
		return fmt.Errorf("%w: %q contains an unescaped quote", ErrInvalidDefault, literal)
	}

	var err error
	switch f.Type {
	case Integer, Serial:
		_, err = strconv.ParseInt(literal, 10, 64)
	case Double:
		if !decimalLiteral.MatchString(literal) {
			err = errors.New("not a decimal number")
		}
	case Boolean:
		if !strings.EqualFold(literal, "true") && !strings.EqualFold(literal, "false") {
			err = errors.New("must be true or false")
		}
	case UUID:
		_, err = uuid.Parse(literal)
	case JSON:
		if !json.Valid([]byte(literal)) {
			err = errors.New("not valid JSON")
		}
	case Date:
		err = parseDateTime(literal, dateLayouts)
	case Time:
		err = parseDateTime(literal, timeLayouts)
	case Timestamp:
		err = parseDateTime(literal, timestampLayouts)
	}

	if err != nil {
		return fmt.Errorf("%w for %s: %q: %v", ErrInvalidDefault, f.Type.Name(), literal, err)
	}
	return nil
}

func parseDateTime(literal string, layouts []string) error {
	if dateTimeSpecials[strings.ToLower(strings.TrimSpace(literal))] {
		return nil
	}

	var lastErr error
	for _, layout := range layouts {
		_, err := time.Parse(layout, literal)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}
