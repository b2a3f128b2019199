package commands

import (
	"fmt"
	"path"

	"github.com/maepreville/psh/core/vos"
)

// Mv implements a POSIX mv command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/mv.html
func Mv(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "mv SOURCE... DEST",
		Short: "Rename SOURCE to DEST, or move SOURCEs to a directory.",
	}

	return cmd.Run(virtOS, func() int {
		args := cmd.Flags().Args()
		if len(args) < 2 {
			fmt.Fprintln(virtOS.Stderr(), "mv: missing file operand")
			cmd.PrintHelp(virtOS.Stdout())
			return 1
		}

		sources := args[:len(args)-1]
		dest := args[len(args)-1]

		destStat, err := virtOS.Stat(dest)
		destIsDir := err == nil && destStat.IsDir()

		if len(sources) > 1 && !destIsDir {
			fmt.Fprintf(virtOS.Stderr(), "mv: target %q is not a directory\n", dest)
			return 1
		}

		anyFailed := false
		for _, src := range sources {
			target := dest
			if destIsDir {
				target = path.Join(dest, path.Base(src))
			}

			if err := virtOS.Rename(src, target); err != nil {
				fmt.Fprintf(virtOS.Stderr(), "mv: cannot move %q to %q: %v\n", src, target, err)
				anyFailed = true
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

var _ vos.ProcessFunc = Mv

func init() {
	mustAddCmd(Mv, "mv")
}
