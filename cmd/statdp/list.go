package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "List the built-in candidate mechanisms",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range algorithmNames() {
			fmt.Println(name)
		}
		return nil
	},
}
