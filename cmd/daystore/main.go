// Package main provides the daystore CLI, a thin consumer of the store API
// for inspecting and editing a local planner database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
