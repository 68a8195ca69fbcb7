// Package schema owns table creation and versioned upgrades. Initialization
// ensures the metadata table, reads the stored schema version, applies any
// outstanding upgrades, and records the new version. Any statement failure
// here is fatal: the caller must not use the store if Initialize errors.
package schema

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/pkg/types"
)

// CurrentVersion is the schema version this build writes.
const CurrentVersion = 2

// ErrFutureSchema is returned when the store was written by a newer build.
var ErrFutureSchema = errors.New("store schema version is newer than this build")

// migration is one versioned upgrade step. Table creation itself is
// idempotent and runs on every initialize; migrations carry only the raw DDL
// needed to move an existing native database forward. The emulated backend
// needs no row surgery for these steps (absent columns read as zero values),
// so raw steps are skipped where the engine takes no literal SQL.
type migration struct {
	version int
	rawSQL  []string
}

var migrations = []migration{
	{version: 1}, // initial layout: users, tasks, subtasks, calendar_events
	{
		// v2 added external-calendar correlation to events.
		version: 2,
		rawSQL: []string{
			`ALTER TABLE calendar_events ADD COLUMN "external_id" TEXT`,
		},
	},
}

// Initialize brings the backend to the current schema. It is idempotent and
// safe to run on every open.
func Initialize(b backend.Backend) error {
	if err := b.EnsureTable(types.MetaSpec); err != nil {
		return fmt.Errorf("ensuring metadata table: %w", err)
	}

	stored, err := readVersion(b)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if stored > CurrentVersion {
		return fmt.Errorf("%w: stored %d, supported %d", ErrFutureSchema, stored, CurrentVersion)
	}
	if stored == CurrentVersion {
		return nil
	}

	// Fresh tables are created at the current layout; CREATE IF NOT EXISTS
	// leaves an existing older layout for the migrations below.
	for _, spec := range types.Tables {
		if err := b.EnsureTable(spec); err != nil {
			return fmt.Errorf("ensuring table %s: %w", spec.Name, err)
		}
	}

	fresh := stored == 0
	caps := b.Caps()
	for _, m := range migrations {
		if m.version <= stored {
			continue
		}
		if fresh || !caps.RawSQL {
			// Nothing to run: the tables were just created at the
			// current layout, or the engine has no raw DDL to apply.
			continue
		}
		for _, stmt := range m.rawSQL {
			if err := b.Exec(stmt); err != nil {
				return fmt.Errorf("applying schema upgrade v%d: %w", m.version, err)
			}
		}
	}

	if err := writeVersion(b, CurrentVersion); err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	return nil
}

// readVersion returns the stored schema version, or 0 when no version row
// exists yet. A malformed stored value is an error, not a silent zero.
func readVersion(b backend.Backend) (int, error) {
	rows, err := b.Select(backend.Query{
		Table: types.MetaTable,
		Where: &backend.Equality{Column: types.MetaKeyColumn, Value: types.MetaSchemaVersionKey},
	})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	raw, _ := rows[0][types.MetaValueColumn].(string)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed schema version %q: %w", raw, err)
	}
	return v, nil
}

// writeVersion records the schema version in the metadata table.
func writeVersion(b backend.Backend, version int) error {
	row := types.Row{
		types.MetaKeyColumn:   types.MetaSchemaVersionKey,
		types.MetaValueColumn: strconv.Itoa(version),
	}
	existing, err := b.Select(backend.Query{
		Table: types.MetaTable,
		Where: &backend.Equality{Column: types.MetaKeyColumn, Value: types.MetaSchemaVersionKey},
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return b.Update(types.MetaSpec, types.MetaSchemaVersionKey, row)
	}
	return b.Insert(types.MetaSpec, row)
}
