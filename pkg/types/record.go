package types

import "time"

// Record is a decoded entity: field name to typed value (string, int64,
// float64, bool, time.Time, or a JSON-decoded map/slice). Records returned
// by the store are plain copies holding no references into internal storage.
type Record map[string]any

// Row is a stored entity: column name to primitive value as the backend
// holds it (string, int64, float64, or nil).
type Row map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// ID returns the record's primary key, or "" if unset.
func (r Record) ID() string {
	return r.String(ColID)
}

// String returns the named field as a string, or "" if absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Bool returns the named field as a bool, or false if absent.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Int returns the named field as an int64, or 0 if absent.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns the named field as a float64, or 0 if absent.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Time returns the named field as a time.Time, or the zero time if absent.
func (r Record) Time(key string) time.Time {
	t, _ := r[key].(time.Time)
	return t
}
