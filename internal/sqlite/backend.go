// Package sqlite implements the native storage backend on the embedded
// SQLite engine. Statements pass through to the engine verbatim; foreign key
// enforcement, including the subtask cascade, is delegated to SQLite.
package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/internal/sqlformat"
	"github.com/halcyon-apps/daystore/pkg/types"
)

// Backend is the native SQLite adapter.
type Backend struct {
	db *sqlx.DB
}

var _ backend.Backend = (*Backend)(nil)

// Open opens (or creates) the database file at path. WAL mode and foreign
// key enforcement are set through the DSN: pragmas are per-connection state,
// and the driver applies DSN pragmas to every connection the pool opens.
func Open(path string) (*Backend, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	return &Backend{db: db}, nil
}

// EnsureTable creates the table if it does not exist.
func (b *Backend) EnsureTable(spec types.TableSpec) error {
	if _, err := b.db.Exec(sqlformat.BuildCreateTable(spec)); err != nil {
		return fmt.Errorf("creating table %s: %w", spec.Name, err)
	}
	return nil
}

// Insert adds one row.
func (b *Backend) Insert(spec types.TableSpec, row types.Row) error {
	stmt, args := sqlformat.BuildInsert(spec, row)
	if _, err := b.db.Exec(stmt, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", spec.Name, err)
	}
	return nil
}

// Update rewrites the columns present in row for the given primary key.
func (b *Backend) Update(spec types.TableSpec, id string, row types.Row) error {
	stmt, args := sqlformat.BuildUpdate(spec, id, row)
	if _, err := b.db.Exec(stmt, args...); err != nil {
		return fmt.Errorf("updating %s: %w", spec.Name, err)
	}
	return nil
}

// Delete removes the row with the given primary key, if present.
func (b *Backend) Delete(spec types.TableSpec, id string) error {
	stmt, args := sqlformat.BuildDelete(spec, id)
	if _, err := b.db.Exec(stmt, args...); err != nil {
		return fmt.Errorf("deleting from %s: %w", spec.Name, err)
	}
	return nil
}

// Select compiles the descriptor to SQL and returns matching rows.
func (b *Backend) Select(q backend.Query) ([]types.Row, error) {
	spec, ok := specFor(q.Table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, q.Table)
	}
	var stmt string
	var args []any
	if q.Where != nil {
		stmt, args = sqlformat.BuildSelect(spec, q.Where.Column, q.Where.Value)
	} else {
		stmt, args = sqlformat.BuildSelect(spec, "", nil)
	}
	return b.Query(stmt, args...)
}

// Query executes a raw parameterized statement and returns rows as flat
// column-to-primitive maps.
func (b *Backend) Query(stmt string, args ...any) ([]types.Row, error) {
	rows, err := b.db.Queryx(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	var out []types.Row
	for rows.Next() {
		m := make(map[string]any)
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, normalizeRow(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Exec executes a raw parameterized statement with no result rows.
func (b *Backend) Exec(stmt string, args ...any) error {
	if _, err := b.db.Exec(stmt, args...); err != nil {
		return fmt.Errorf("executing: %w", err)
	}
	return nil
}

// Caps reports that SQLite enforces the declared foreign keys itself.
func (b *Backend) Caps() backend.Caps {
	return backend.Caps{ForeignKeys: true, RawSQL: true}
}

// Flush is a no-op: SQLite writes through on every statement.
func (b *Backend) Flush() error { return nil }

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// normalizeRow converts driver byte slices to strings so rows hold only the
// primitive set the codec understands.
func normalizeRow(m map[string]any) types.Row {
	row := make(types.Row, len(m))
	for k, v := range m {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
			continue
		}
		row[k] = v
	}
	return row
}

// specFor resolves a table spec by name, including the reserved metadata
// table.
func specFor(name string) (types.TableSpec, bool) {
	if name == types.MetaTable {
		return types.MetaSpec, true
	}
	return types.TableByName(name)
}
