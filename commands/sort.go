package commands

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/maepreville/psh/core/vos"
)

// Sort implements a simplified POSIX sort command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/sort.html
func Sort(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "sort [-ru] [FILE]...",
		Short: "Sort lines of all FILEs together and write the result to standard output.",
	}

	reverse := cmd.Flags().Bool('r', "reverse the result of comparisons")
	unique := cmd.Flags().Bool('u', "output only the first of equal lines")

	return cmd.Run(virtOS, func() int {
		var lines []string

		exitCode := cmd.RunEachFileOrStdin(virtOS, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			scanner := bufio.NewScanner(fd)
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			return scanner.Err()
		})
		if exitCode != 0 {
			return exitCode
		}

		sort.Strings(lines)
		if *reverse {
			for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
				lines[i], lines[j] = lines[j], lines[i]
			}
		}

		w := virtOS.Stdout()
		var prev string
		havePrev := false
		for _, line := range lines {
			if *unique && havePrev && line == prev {
				continue
			}
			fmt.Fprintln(w, line)
			prev, havePrev = line, true
		}

		return 0
	})
}

var _ vos.ProcessFunc = Sort

func init() {
	mustAddCmd(Sort, "sort")
}
