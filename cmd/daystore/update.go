// Update command merges partial fields onto an existing entity.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyon-apps/daystore/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update <table> <id> field=value...",
	Short: "Update an entity",
	Long: `Update merges the given fields onto the stored entity and refreshes
its updated_at timestamp. The id and created_at never change.

Example:
  daystore update tasks 0190c2a4-77aa-7bbd-a7a1-1f6a3b2c4d5e completed=true`,
	Args: cobra.MinimumNArgs(3),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	table, id := args[0], args[1]
	spec, ok := types.TableByName(table)
	if !ok {
		return fmt.Errorf("unknown table %q (valid: %s)", table, validTableNamesStr)
	}

	fields, err := parseFieldArgs(spec, args[2:])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Update(table, id, fields)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("no %s entity with id %q", table, id)
		}
		return fmt.Errorf("update entity: %w", err)
	}
	return printRecord(rec)
}
