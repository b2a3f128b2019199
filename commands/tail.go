package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/maepreville/psh/core/vos"
)

// Tail implements the POSIX tail command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/tail.html
func Tail(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "tail [-n NUM] [FILE]...",
		Short: "Print the last 10 lines of each FILE to standard output.",
	}

	lineCount := cmd.Flags().IntLong("lines", 'n', 10, "print the last NUM lines instead of the last 10")

	return cmd.Run(virtOS, func() int {
		files := cmd.Flags().Args()
		showHeaders := len(files) > 1

		if *lineCount < 0 {
			fmt.Fprintf(virtOS.Stderr(), "tail: invalid number of lines: %d\n", *lineCount)
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

			// Ring of the last NUM lines seen so far.
			ring := make([]string, 0, *lineCount)
			next := 0
			total := 0

			scanner := bufio.NewScanner(fd)
			for scanner.Scan() {
				if *lineCount == 0 {
					continue
				}
				if len(ring) < *lineCount {
					ring = append(ring, scanner.Text())
				} else {
					ring[next] = scanner.Text()
				}
				next = (next + 1) % *lineCount
				total++
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			if total > len(ring) {
				for i := 0; i < len(ring); i++ {
					fmt.Fprintln(w, ring[(next+i)%len(ring)])
				}
			} else {
				for _, line := range ring {
					fmt.Fprintln(w, line)
				}
			}
			return nil
		})
	})
}

var _ vos.ProcessFunc = Tail

func init() {
	mustAddCmd(Tail, "tail")
}
