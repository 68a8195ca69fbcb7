// Create command inserts an entity into a table from key=value fields.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyon-apps/daystore/pkg/types"
)

var createCmd = &cobra.Command{
	Use:   "create <table> [field=value...]",
	Short: "Create an entity",
	Long: `Create inserts a new entity into the specified table. Fields are
given as key=value pairs and parsed by the table schema; the id and
timestamps are assigned by the store.

Example:
  daystore create tasks user_id=u1 title="Write report" priority=high completed=false
  daystore create calendar_events user_id=u1 title=Standup start=2026-09-01T09:00:00Z end=2026-09-01T09:15:00Z all_day=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	table := args[0]
	spec, ok := types.TableByName(table)
	if !ok {
		return fmt.Errorf("unknown table %q (valid: %s)", table, validTableNamesStr)
	}

	fields, err := parseFieldArgs(spec, args[1:])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Create(table, fields)
	if err != nil {
		if errors.Is(err, types.ErrInvalidField) {
			return err
		}
		return fmt.Errorf("create entity: %w", err)
	}

	if flagJSON {
		return printRecord(rec)
	}
	fmt.Println(rec.ID())
	return nil
}
