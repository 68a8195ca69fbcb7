package sqlformat

import (
	"fmt"
	"strings"

	"github.com/halcyon-apps/daystore/pkg/types"
)

// BuildCreateTable renders idempotent DDL for a table spec, declaring column
// types, not-null constraints, the primary key, and any cascading foreign key.
func BuildCreateTable(spec types.TableSpec) string {
	var cols []string
	if !spec.Bare {
		cols = append(cols,
			fmt.Sprintf("%s TEXT PRIMARY KEY", types.ColID),
			fmt.Sprintf("%s TEXT NOT NULL", types.ColCreatedAt),
			fmt.Sprintf("%s TEXT NOT NULL", types.ColUpdatedAt),
		)
	}
	for _, f := range spec.Fields {
		col := quoteIdent(f.Name) + " " + sqlType(f.Kind)
		if spec.Bare && f.Name == spec.PrimaryKey {
			col += " PRIMARY KEY"
		}
		if f.NotNull {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	if fk := spec.ForeignKey; fk != nil {
		cols = append(cols, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE CASCADE",
			quoteIdent(fk.Field), fk.RefTable, types.ColID))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		spec.Name, strings.Join(cols, ",\n    "))
}

// BuildInsert renders a parameterized INSERT for the row. Columns follow the
// spec's declaration order; only columns present in the row are included.
func BuildInsert(spec types.TableSpec, row types.Row) (string, []any) {
	var cols []string
	var args []any
	for _, name := range spec.Columns() {
		val, ok := row[name]
		if !ok {
			continue
		}
		cols = append(cols, quoteIdent(name))
		args = append(args, val)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(cols, ", "), placeholders)
	return stmt, args
}

// BuildUpdate renders a parameterized UPDATE by primary key. The primary key
// column is never part of the SET list.
func BuildUpdate(spec types.TableSpec, id string, row types.Row) (string, []any) {
	var sets []string
	var args []any
	for _, name := range spec.Columns() {
		if name == spec.IDColumn() {
			continue
		}
		val, ok := row[name]
		if !ok {
			continue
		}
		sets = append(sets, quoteIdent(name)+" = ?")
		args = append(args, val)
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		spec.Name, strings.Join(sets, ", "), spec.IDColumn())
	args = append(args, id)
	return stmt, args
}

// BuildDelete renders a parameterized DELETE by primary key.
func BuildDelete(spec types.TableSpec, id string) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = ?", spec.Name, spec.IDColumn()),
		[]any{id}
}

// BuildSelect renders a parameterized SELECT of all declared columns with an
// optional single equality predicate. whereCol empty means no predicate.
func BuildSelect(spec types.TableSpec, whereCol string, whereVal any) (string, []any) {
	cols := make([]string, 0, len(spec.Columns()))
	for _, name := range spec.Columns() {
		cols = append(cols, quoteIdent(name))
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), spec.Name)
	if whereCol == "" {
		return stmt, nil
	}
	return stmt + fmt.Sprintf(" WHERE %s = ?", quoteIdent(whereCol)), []any{whereVal}
}

// sqlType maps a field kind to its SQLite storage type.
func sqlType(kind types.FieldKind) string {
	switch kind {
	case types.KindInteger, types.KindBool:
		return "INTEGER"
	case types.KindReal:
		return "REAL"
	default:
		// Text, time, and JSON values are all stored as TEXT.
		return "TEXT"
	}
}

// quoteIdent quotes a column identifier. Needed for columns that collide with
// keywords, such as calendar_events.end.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
