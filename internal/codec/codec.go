// Package codec converts between typed entity values and the primitive
// representation the backends store (TEXT, INTEGER, REAL). Conversion is
// driven entirely by the declared field kind in the table spec; column names
// carry no type information.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/halcyon-apps/daystore/pkg/types"
)

// TimeLayout is the stored text encoding for instants: UTC, millisecond
// precision, fixed width so lexicographic order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// EncodeRecord converts a decoded record to a stored row. Every key must be
// declared in the spec; undeclared keys fail with ErrInvalidField.
func EncodeRecord(spec types.TableSpec, rec types.Record) (types.Row, error) {
	row := make(types.Row, len(rec))
	for name, val := range rec {
		field, ok := spec.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", types.ErrInvalidField, spec.Name, name)
		}
		enc, err := EncodeValue(field, val)
		if err != nil {
			return nil, fmt.Errorf("encoding %s.%s: %w", spec.Name, name, err)
		}
		row[name] = enc
	}
	return row, nil
}

// DecodeRow converts a stored row back to a typed record. Columns absent from
// the spec are dropped; malformed stored values are errors, never silently
// coerced to a sentinel.
func DecodeRow(spec types.TableSpec, row types.Row) (types.Record, error) {
	rec := make(types.Record, len(row))
	for name, val := range row {
		field, ok := spec.Field(name)
		if !ok {
			continue
		}
		dec, err := DecodeValue(field, val)
		if err != nil {
			return nil, fmt.Errorf("decoding %s.%s: %w", spec.Name, name, err)
		}
		rec[name] = dec
	}
	return rec, nil
}

// EncodeValue converts one typed value to its stored primitive.
func EncodeValue(field types.FieldSpec, val any) (any, error) {
	if val == nil {
		return nil, nil
	}
	switch field.Kind {
	case types.KindText:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", val)
		}
		return s, nil

	case types.KindInteger:
		switch v := val.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", val)

	case types.KindReal:
		switch v := val.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected float, got %T", val)

	case types.KindBool:
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", val)
		}
		if b {
			return int64(1), nil
		}
		return int64(0), nil

	case types.KindTime:
		t, ok := val.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", val)
		}
		if t.IsZero() {
			return nil, nil
		}
		return t.UTC().Format(TimeLayout), nil

	case types.KindJSON:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshaling nested value: %w", err)
		}
		return string(b), nil
	}
	return nil, fmt.Errorf("unknown field kind %q", field.Kind)
}

// DecodeValue converts one stored primitive back to its typed value.
func DecodeValue(field types.FieldSpec, val any) (any, error) {
	if val == nil {
		return zeroValue(field.Kind), nil
	}
	switch field.Kind {
	case types.KindText:
		return asString(val)

	case types.KindInteger:
		switch v := val.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			return int64(v), nil
		}
		return nil, fmt.Errorf("expected stored integer, got %T", val)

	case types.KindReal:
		switch v := val.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected stored float, got %T", val)

	case types.KindBool:
		switch v := val.(type) {
		case int64:
			return v != 0, nil
		case float64:
			return v != 0, nil
		case bool:
			return v, nil
		}
		return nil, fmt.Errorf("expected stored 0/1, got %T", val)

	case types.KindTime:
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("parsing stored instant %q: %w", s, err)
		}
		return t, nil

	case types.KindJSON:
		s, err := asString(val)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("parsing nested value: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown field kind %q", field.Kind)
}

func asString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("expected stored text, got %T", val)
}

func zeroValue(kind types.FieldKind) any {
	switch kind {
	case types.KindText:
		return ""
	case types.KindInteger:
		return int64(0)
	case types.KindReal:
		return float64(0)
	case types.KindBool:
		return false
	case types.KindTime:
		return time.Time{}
	}
	return nil
}
