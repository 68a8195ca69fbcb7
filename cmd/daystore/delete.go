// Delete command removes an entity by id.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyon-apps/daystore/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Delete an entity by id",
	Long: `Delete removes the entity with the given id. Deleting an id that
does not exist is not an error. Deleting a task also deletes its subtasks.

Example:
  daystore delete tasks 0190c2a4-77aa-7bbd-a7a1-1f6a3b2c4d5e`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	table, id := args[0], args[1]
	if _, ok := types.TableByName(table); !ok {
		return fmt.Errorf("unknown table %q (valid: %s)", table, validTableNamesStr)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(table, id); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	fmt.Println("deleted")
	return nil
}
