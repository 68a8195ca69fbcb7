// Package memory implements the emulated storage backend used where the
// native SQLite engine is unavailable. Tables are in-memory row lists lazily
// hydrated from a string key-value area and written back on flush or close.
// Mutations are real: insert, update, and delete operate on the row lists,
// not on SQL text.
package memory

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/pkg/types"
)

// Backend is the emulated adapter.
type Backend struct {
	kv        *kvArea
	storeName string

	specs  map[string]types.TableSpec
	tables map[string][]types.Row
	loaded map[string]bool
	dirty  map[string]bool
}

var _ backend.Backend = (*Backend)(nil)

// Open creates an emulated backend persisting to dir. Tables are hydrated
// lazily on first access; nothing is read here.
func Open(dir, storeName string) (*Backend, error) {
	return &Backend{
		kv:        newKVArea(dir),
		storeName: storeName,
		specs:     make(map[string]types.TableSpec),
		tables:    make(map[string][]types.Row),
		loaded:    make(map[string]bool),
		dirty:     make(map[string]bool),
	}, nil
}

// key returns the key-value area key for a table.
func (b *Backend) key(table string) string {
	return b.storeName + "_" + table
}

// EnsureTable registers the table spec. There is no DDL to run; an absent
// key simply hydrates to an empty list.
func (b *Backend) EnsureTable(spec types.TableSpec) error {
	b.specs[spec.Name] = spec
	return nil
}

// hydrate loads the table's row list from the key-value area on first access.
func (b *Backend) hydrate(table string) ([]types.Row, error) {
	if _, ok := b.specs[table]; !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if b.loaded[table] {
		return b.tables[table], nil
	}

	raw, found, err := b.kv.Get(b.key(table))
	if err != nil {
		return nil, fmt.Errorf("hydrating %s: %w", table, err)
	}
	var rows []types.Row
	if found && raw != "" {
		var parsed []map[string]any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, fmt.Errorf("parsing stored rows for %s: %w", table, err)
		}
		rows = make([]types.Row, 0, len(parsed))
		for _, m := range parsed {
			rows = append(rows, normalizeRow(m))
		}
	}
	b.tables[table] = rows
	b.loaded[table] = true
	return rows, nil
}

// Insert appends a copy of the row.
func (b *Backend) Insert(spec types.TableSpec, row types.Row) error {
	rows, err := b.hydrate(spec.Name)
	if err != nil {
		return err
	}
	id, _ := row[spec.IDColumn()].(string)
	for _, r := range rows {
		if r[spec.IDColumn()] == id {
			return fmt.Errorf("inserting into %s: duplicate primary key %q", spec.Name, id)
		}
	}
	b.tables[spec.Name] = append(rows, copyRow(row))
	b.dirty[spec.Name] = true
	return nil
}

// Update merges the columns present in row onto the row with the given
// primary key. An absent id is not an error; the store checks existence.
func (b *Backend) Update(spec types.TableSpec, id string, row types.Row) error {
	rows, err := b.hydrate(spec.Name)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r[spec.IDColumn()] == id {
			for k, v := range row {
				if k == spec.IDColumn() {
					continue
				}
				r[k] = v
			}
			b.dirty[spec.Name] = true
			return nil
		}
	}
	return nil
}

// Delete removes the row with the given primary key, if present.
func (b *Backend) Delete(spec types.TableSpec, id string) error {
	rows, err := b.hydrate(spec.Name)
	if err != nil {
		return err
	}
	kept := rows[:0]
	removed := false
	for _, r := range rows {
		if r[spec.IDColumn()] == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if removed {
		b.tables[spec.Name] = kept
		b.dirty[spec.Name] = true
	}
	return nil
}

// Select returns copies of the rows matching the descriptor.
func (b *Backend) Select(q backend.Query) ([]types.Row, error) {
	rows, err := b.hydrate(q.Table)
	if err != nil {
		return nil, err
	}
	var out []types.Row
	for _, r := range rows {
		if q.Where != nil && !looseEqual(r[q.Where.Column], q.Where.Value) {
			continue
		}
		out = append(out, copyRow(r))
	}
	return out, nil
}

// Exec accepts no raw statement shapes. Schema work goes through EnsureTable
// and mutations through the structured operations; anything else is a loud
// error rather than a silent no-op.
func (b *Backend) Exec(stmt string, args ...any) error {
	return fmt.Errorf("%w: %q", types.ErrUnsupportedQuery, stmt)
}

// Caps reports that no foreign key enforcement exists and raw SQL is limited
// to the interpreted SELECT subset; the store cascades deletes itself.
func (b *Backend) Caps() backend.Caps {
	return backend.Caps{ForeignKeys: false, RawSQL: false}
}

// Flush writes every modified table back to the key-value area.
func (b *Backend) Flush() error {
	for table := range b.dirty {
		data, err := json.Marshal(b.tables[table])
		if err != nil {
			return fmt.Errorf("serializing %s: %w", table, err)
		}
		if err := b.kv.Set(b.key(table), string(data)); err != nil {
			return fmt.Errorf("persisting %s: %w", table, err)
		}
		delete(b.dirty, table)
	}
	return nil
}

// Close flushes all modified tables. The backend stays usable afterwards, but
// the store never calls it twice.
func (b *Backend) Close() error {
	return b.Flush()
}

func copyRow(r types.Row) types.Row {
	cp := make(types.Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// normalizeRow converts JSON-decoded numbers back to the primitive set the
// codec understands: integral floats become int64, matching what the native
// engine returns for INTEGER columns.
func normalizeRow(m map[string]any) types.Row {
	row := make(types.Row, len(m))
	for k, v := range m {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			row[k] = int64(f)
			continue
		}
		row[k] = v
	}
	return row
}

// looseEqual compares two primitives, treating int64 and float64 with the
// same numeric value as equal. Bound parameter values have not been through
// JSON, so their numeric type can differ from hydrated rows.
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	return aok && bok && af == bf
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
