package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/maepreville/psh/core/vos"
)

// Grep implements the POSIX grep command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/
func Grep(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "grep [-ivn] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	invert := cmd.Flags().Bool('v', "Select lines not matching any of the specified patterns.")
	ignoreCase := cmd.Flags().Bool('i', "Perform pattern matching in searches without regard to case.")
	showLineNumbers := cmd.Flags().Bool('n', "Show line numbers.")

	return cmd.Run(virtOS, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintf(virtOS.Stderr(), "grep: %v\n", errors.New("missing argument PATTERN"))
			return 2
		}

		// NOTE: Officially, the PATTERN argument supports multiple patterns
		// delimited by newlines. It's a very rare case so it's ignored here.
		pattern := args[0]
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "grep: %v\n", err)
			return 2
		}

		files := args[1:]
		showFileName := len(files) > 1
		anyMatched := false

		exitCode := cmd.RunEachFileOrStdin(virtOS, files, func(name string, fd io.Reader) error {
			w := virtOS.Stdout()

			scanner := bufio.NewScanner(fd)
			lineNo := 1
			for scanner.Scan() {
				line := scanner.Bytes()
				lineMatches := regex.Match(line)

				if (lineMatches && !*invert) || (!lineMatches && *invert) {
					anyMatched = true
					if showFileName {
						fmt.Fprintf(w, "%s:", name)
					}

					if *showLineNumbers {
						fmt.Fprintf(w, "%d:", lineNo)
					}

					fmt.Fprintf(w, "%s\n", line)
				}
				lineNo++
			}

			return scanner.Err()
		})

		// grep distinguishes "no matches" (1) from hard errors (2).
		switch {
		case exitCode != 0:
			return 2
		case !anyMatched:
			return 1
		default:
			return 0
		}
	})
}

var _ vos.ProcessFunc = Grep

func init() {
	mustAddCmd(Grep, "grep")
}
