// Package backend defines the storage engine contract shared by the native
// SQLite adapter and the in-memory emulated adapter.
package backend

import "github.com/halcyon-apps/daystore/pkg/types"

// Equality is a single-column equality predicate. Value is a store primitive.
type Equality struct {
	Column string
	Value  any
}

// Query is a structured read descriptor: one table, an optional single
// equality predicate. Typed reads go through Query descriptors so the
// emulated backend never has to parse SQL on the typed path.
type Query struct {
	Table string
	Where *Equality
}

// Caps reports what the engine enforces on its own.
type Caps struct {
	// ForeignKeys is true when the engine enforces cascading foreign keys
	// declared at table creation. When false the store cascades manually.
	ForeignKeys bool

	// RawSQL is true when the engine accepts arbitrary literal SQL through
	// Exec and Query. The emulated engine only interprets the reduced
	// SELECT subset and runs no raw DDL or DML.
	RawSQL bool
}

// Backend is the storage engine contract. Rows hold primitives only; the
// codec above this layer owns all type coercion. Implementations are safe for
// use by a single Store, which serializes access.
type Backend interface {
	// EnsureTable idempotently creates the table described by spec.
	EnsureTable(spec types.TableSpec) error

	// Insert adds one row. A duplicate primary key surfaces as an engine
	// error, unchecked at this layer.
	Insert(spec types.TableSpec, row types.Row) error

	// Update rewrites the columns present in row for the row with the given
	// primary key. Updating an absent id is not an error here; the store
	// checks existence first.
	Update(spec types.TableSpec, id string, row types.Row) error

	// Delete removes the row with the given primary key, if present.
	Delete(spec types.TableSpec, id string) error

	// Select returns the rows matching the descriptor, unordered.
	Select(q Query) ([]types.Row, error)

	// Query executes a raw parameterized statement and returns its rows.
	// The emulated backend interprets only the
	// SELECT * FROM table [WHERE col = value] subset and returns
	// types.ErrUnsupportedQuery for anything else.
	Query(stmt string, args ...any) ([]types.Row, error)

	// Exec executes a raw parameterized statement with no result rows.
	Exec(stmt string, args ...any) error

	// Caps reports engine capabilities. Probed once at store construction.
	Caps() Caps

	// Flush persists any buffered state. A no-op for engines that write
	// through on every statement.
	Flush() error

	// Close flushes and releases the engine. The backend is unusable after.
	Close() error
}
