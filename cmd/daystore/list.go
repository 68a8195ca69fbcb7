// List command queries entities from a table with an optional equality
// filter.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halcyon-apps/daystore/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [field=value]",
	Short: "List entities with an optional filter",
	Long: `List queries entities from the specified table. An optional single
field=value pair narrows the result to entities whose field equals the value.

Example:
  daystore list tasks
  daystore list tasks user_id=u1
  daystore list subtasks task_id=0190c2a4-77aa-7bbd-a7a1-1f6a3b2c4d5e`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	table := args[0]
	spec, ok := types.TableByName(table)
	if !ok {
		return fmt.Errorf("unknown table %q (valid: %s)", table, validTableNamesStr)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var recs []types.Record
	if len(args) == 2 {
		key, raw, found := strings.Cut(args[1], "=")
		if !found {
			return fmt.Errorf("invalid filter %q (expected field=value)", args[1])
		}
		val, err := parseFieldValue(spec, key, raw)
		if err != nil {
			return err
		}
		recs, err = st.GetByFilter(table, key, val)
		if err != nil {
			return fmt.Errorf("list entities: %w", err)
		}
	} else {
		recs, err = st.GetAll(table)
		if err != nil {
			return fmt.Errorf("list entities: %w", err)
		}
	}

	return printRecords(recs)
}
