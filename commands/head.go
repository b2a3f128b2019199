package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/maepreville/psh/core/vos"
)

// Head implements the POSIX head command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/head.html
func Head(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "head [-n NUM] [FILE]...",
		Short: "Print the first 10 lines of each FILE to standard output.",
	}

	lineCount := cmd.Flags().IntLong("lines", 'n', 10, "print the first NUM lines instead of the first 10")

	return cmd.Run(virtOS, func() int {
		files := cmd.Flags().Args()
		showHeaders := len(files) > 1

		if *lineCount < 0 {
			fmt.Fprintf(virtOS.Stderr(), "head: invalid number of lines: %d\n", *lineCount)
			return 1
		}

		first := true
		return cmd.RunEachFileOrStdin(virtOS, files, func(name string, fd io.Reader) error {
			w := virtOS.Stdout()
			if showHeaders {
				if !first {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "==> %s <==\n", name)
			}
			first = false

			scanner := bufio.NewScanner(fd)
			for i := 0; i < *lineCount && scanner.Scan(); i++ {
				fmt.Fprintln(w, scanner.Text())
			}
			return scanner.Err()
		})
	})
}

var _ vos.ProcessFunc = Head

func init() {
	mustAddCmd(Head, "head")
}
