package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/maepreville/psh/core/vos"
)

// Less implements a minimal pager. Output is paged a screen at a time when
// attached to a PTY, otherwise it behaves like cat.
func Less(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "less [FILE]...",
		Short: "View file contents one screen at a time.",
	}

	return cmd.Run(virtOS, func() int {
		pty := virtOS.GetPTY()

		pageSize := 0
		if pty.IsPTY && pty.Height > 1 {
			// Leave a row for the prompt.
			pageSize = pty.Height - 1
		}

		return cmd.RunEachFileOrStdin(virtOS, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			w := virtOS.Stdout()

			if pageSize == 0 {
				_, err := io.Copy(w, fd)
				return err
			}

			keys := bufio.NewReader(virtOS.Stdin())
			scanner := bufio.NewScanner(fd)
			row := 0
			for scanner.Scan() {
				fmt.Fprintln(w, scanner.Text())
				row++
				if row < pageSize {
					continue
				}

				fmt.Fprint(w, ":")
				key, err := keys.ReadByte()
				if err != nil {
					return scanner.Err()
				}
				fmt.Fprintln(w)
				if key == 'q' {
					return nil
				}
				row = 0
			}
			return scanner.Err()
		})
	})
}

var _ vos.ProcessFunc = Less

func init() {
	mustAddCmd(Less, "less")
}
