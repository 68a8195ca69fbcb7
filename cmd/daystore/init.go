// Init command creates the store and brings the schema to the current
// version.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local store",
	Long: `Init opens the store, creating the database and bringing its schema
to the current version, then closes it again.

Example:
  daystore init
  daystore init --backend memory --data-dir ./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Println("store initialized")
		return nil
	},
}
