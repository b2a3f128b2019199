package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maepreville/psh/commands"
	"github.com/maepreville/psh/core"
)

// builtinsCmd lists everything the shell can run.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands and shell builtins.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var builtins []string

		for _, entry := range commands.ListBuiltinCommands() {
			builtins = append(builtins, strings.Join(entry.Names, ", "))
		}

		for name := range core.AllBuiltins {
			builtins = append(builtins, "shell:"+name)
		}

		sort.Strings(builtins)

		for _, v := range builtins {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
