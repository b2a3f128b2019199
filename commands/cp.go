package commands

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/maepreville/psh/core/vos"
)

func copyFile(virtOS vos.VOS, src, dst string, perm os.FileMode) error {
	in, err := virtOS.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := virtOS.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(virtOS vos.VOS, src, dst string) error {
	stat, err := virtOS.Stat(src)
	if err != nil {
		return err
	}

	if !stat.IsDir() {
		return copyFile(virtOS, src, dst, stat.Mode().Perm())
	}

	if err := virtOS.MkdirAll(dst, stat.Mode().Perm()); err != nil {
		return err
	}

	fd, err := virtOS.Open(src)
	if err != nil {
		return err
	}
	entries, err := fd.Readdirnames(-1)
	fd.Close()
	if err != nil {
		return err
	}

	for _, name := range entries {
		if err := copyTree(virtOS, path.Join(src, name), path.Join(dst, name)); err != nil {
			return err
		}
	}
	return nil
}

// Cp implements a POSIX cp command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/cp.html
func Cp(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "cp [-r] SOURCE... DEST",
		Short: "Copy files and directories.",
	}

	recursive := cmd.Flags().BoolLong("recursive", 'r', "copy directories recursively")

	return cmd.Run(virtOS, func() int {
		args := cmd.Flags().Args()
		if len(args) < 2 {
			fmt.Fprintln(virtOS.Stderr(), "cp: missing file operand")
			cmd.PrintHelp(virtOS.Stdout())
			return 1
		}

		sources := args[:len(args)-1]
		dest := args[len(args)-1]

		destStat, err := virtOS.Stat(dest)
		destIsDir := err == nil && destStat.IsDir()

		if len(sources) > 1 && !destIsDir {
			fmt.Fprintf(virtOS.Stderr(), "cp: target %q is not a directory\n", dest)
			return 1
		}

		anyFailed := false
		for _, src := range sources {
			target := dest
			if destIsDir {
				target = path.Join(dest, path.Base(src))
			}

			stat, err := virtOS.Stat(src)
			switch {
			case err != nil:
				fmt.Fprintf(virtOS.Stderr(), "cp: cannot stat %q: %v\n", src, err)
				anyFailed = true
				continue
			case stat.IsDir() && !*recursive:
				fmt.Fprintf(virtOS.Stderr(), "cp: %q is a directory (not copied)\n", src)
				anyFailed = true
				continue
			}

			if err := copyTree(virtOS, src, target); err != nil {
				fmt.Fprintf(virtOS.Stderr(), "cp: cannot copy %q: %v\n", src, err)
				anyFailed = true
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

var _ vos.ProcessFunc = Cp

func init() {
	mustAddCmd(Cp, "cp")
}
