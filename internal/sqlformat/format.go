// Package sqlformat renders parameterized statement templates into executable
// SQL and builds the fixed statement shapes the store needs. Builders only
// ever touch fields declared in a table spec.
package sqlformat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the single positional placeholder token. The Nth occurrence
// in a template is replaced by the Nth value, strictly left to right.
const Placeholder = "?"

// ErrPlaceholderMismatch is returned when a template's placeholder count does
// not equal the number of supplied values.
var ErrPlaceholderMismatch = errors.New("placeholder count does not match value count")

// Format substitutes values into a template. Values must already be store
// primitives (string, integer, float, bool, or nil); strings are single-quote
// wrapped with internal quotes doubled, nil renders as NULL. A count mismatch
// fails fast rather than truncating.
func Format(template string, values ...any) (string, error) {
	n := strings.Count(template, Placeholder)
	if n != len(values) {
		return "", fmt.Errorf("%w: %d placeholders, %d values", ErrPlaceholderMismatch, n, len(values))
	}

	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for _, v := range values {
		idx := strings.Index(rest, Placeholder)
		b.WriteString(rest[:idx])
		lit, err := Literal(v)
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		rest = rest[idx+len(Placeholder):]
	}
	b.WriteString(rest)
	return b.String(), nil
}

// Literal renders a single primitive value as a SQL literal.
func Literal(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'", nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	}
	return "", fmt.Errorf("unsupported literal type %T", v)
}
