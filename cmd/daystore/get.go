// Get command retrieves one entity by id.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyon-apps/daystore/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <id>",
	Short: "Get an entity by id",
	Long: `Get retrieves a single entity by its id and prints it as JSON.

Example:
  daystore get tasks 0190c2a4-77aa-7bbd-a7a1-1f6a3b2c4d5e`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	table, id := args[0], args[1]
	if _, ok := types.TableByName(table); !ok {
		return fmt.Errorf("unknown table %q (valid: %s)", table, validTableNamesStr)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.GetByID(table, id)
	if err != nil {
		return fmt.Errorf("get entity: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("no %s entity with id %q", table, id)
	}
	return printRecord(rec)
}
