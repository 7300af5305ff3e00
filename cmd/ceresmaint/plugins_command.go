package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ceresmaint/internal/plugin"
)

func newPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List built-in maintenance plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := plugin.Builtins()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no built-in plugins registered")
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, "builtin"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Plugin", "Source"}, rows, nil))
			return nil
		},
	}
}
